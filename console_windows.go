package main

import (
	"log"
	"os"
	"syscall"
)

const ATTACH_PARENT_PROCESS = ^uint32(0) // (DWORD)-1

var (
	modkernel32       = syscall.NewLazyDLL("kernel32.dll")
	procAttachConsole = modkernel32.NewProc("AttachConsole")
)

func attachConsole(dwParentProcess uint32) (ok bool, lasterr error) {
	r1, _, lasterr := syscall.SyscallN(procAttachConsole.Addr(), uintptr(dwParentProcess), 0, 0)
	ok = bool(r1 != 0)
	return
}

var oldStdin, oldStdout, oldStderr = os.Stdin, os.Stdout, os.Stderr //lint:ignore U1000 Prevent GC of the original std handles

// GUI subsystem binaries start without a console. Reattaching to the
// parent's console makes log output land in the invoking terminal.
func init() {
	ok, lasterr := attachConsole(ATTACH_PARENT_PROCESS)
	if ok {
		hout, err1 := syscall.GetStdHandle(syscall.STD_OUTPUT_HANDLE)
		if err1 != nil {
			log.Printf("stdout connection error : %v", err1)
		}
		herr, err2 := syscall.GetStdHandle(syscall.STD_ERROR_HANDLE)
		if err2 != nil {
			log.Printf("stderr connection error : %v", err2)
		}
		os.Stdout = os.NewFile(uintptr(hout), "/dev/stdout")
		os.Stderr = os.NewFile(uintptr(herr), "/dev/stderr")
		log.SetOutput(os.Stderr)
		return
	}
	if lasterr != nil {
		log.Printf("attachConsole failed : %v", lasterr)
	}
}
