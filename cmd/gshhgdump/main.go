package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tectonix/geoplot/pkg/gshhg"
)

var (
	maxLevel   int
	minArea    float64
	onlyID     int
	withPoints bool
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	flag.IntVar(&maxLevel, "level", 0, "Keep polygons with level at most this, 0 keeps all")
	flag.Float64Var(&minArea, "min-area", 0, "Skip polygons smaller than this many km²")
	flag.IntVar(&onlyID, "id", -1, "Dump only the polygon with this id")
	flag.BoolVar(&withPoints, "points", false, "Print ring vertices as lon lat lines")
	flag.Parse()
}

func main() {
	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [flags] gshhs_?.b", os.Args[0])
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("open error: %v", err)
	}
	defer f.Close()

	dec := gshhg.NewDecoder(bufio.NewReaderSize(f, 1<<20))
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var kept, read, points int
	for {
		p, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatalf("decode error: %v", err)
		}
		read++
		if maxLevel > 0 && int(p.Level) > maxLevel {
			continue
		}
		if p.Area < minArea {
			continue
		}
		if onlyID >= 0 && p.ID != onlyID {
			continue
		}
		kept++
		points += len(p.Ring)
		fmt.Fprintf(out, "%d %s %d pts %.1f km² lon %.4f..%.4f lat %.4f..%.4f%s%s\n",
			p.ID, p.Level, len(p.Ring), p.Area,
			p.Bound.Min[0], p.Bound.Max[0], p.Bound.Min[1], p.Bound.Max[1],
			mark(p.Greenwich, " greenwich"), mark(p.River, " river"))
		if withPoints {
			for _, pt := range p.Ring {
				fmt.Fprintf(out, "%.6f %.6f\n", pt[0], pt[1])
			}
		}
	}
	log.Printf("format version %d, %d of %d polygons, %d points", dec.Version(), kept, read, points)
}

func mark(on bool, s string) string {
	if on {
		return s
	}
	return ""
}
