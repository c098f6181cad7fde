package progressmodal

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type ProgressModal struct {
	p  *widget.PopUp
	pb *widget.ProgressBarInfinite
}

func New(c fyne.Canvas, message string) *ProgressModal {
	pb := widget.NewProgressBarInfinite()
	msg := container.NewBorder(nil, pb, nil, nil, widget.NewLabel(message))
	return &ProgressModal{
		p:  widget.NewModalPopUp(msg, c),
		pb: pb,
	}
}

func (pm *ProgressModal) Stop() {
	pm.pb.Stop()
}

func (pm *ProgressModal) Show() {
	pm.pb.Start()
	pm.p.Show()
}

func (pm *ProgressModal) Hide() {
	pm.pb.Stop()
	pm.p.Hide()
}
