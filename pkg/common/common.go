package common

const (
	OneHalf    = 1.0 / 2.0 // 0.5
	OneThird   = 1.0 / 3.0 // 0.3333333333333333
	OneSeventh = 1.0 / 7.0 // 0.14285714285714285
	OneEight   = 1.0 / 8.0 // 0.125
)
