package glitch

// Schedule controls how distortion amplitude varies across a frame sequence.
type Schedule interface {
	AmountAt(frame, total int) float64
}

type ConstantSchedule struct {
	Amount float64 `json:"amount"`
}

func Constant(amount float64) ConstantSchedule {
	return ConstantSchedule{Amount: amount}
}

func (s ConstantSchedule) AmountAt(frame, total int) float64 {
	return s.Amount
}

// RampSchedule interpolates linearly from Start at the first frame to End at
// the last frame.
type RampSchedule struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func Ramp(start, end float64) RampSchedule {
	return RampSchedule{Start: start, End: end}
}

func (s RampSchedule) AmountAt(frame, total int) float64 {
	if total <= 1 {
		return s.Start
	}
	return s.Start + (s.End-s.Start)*float64(frame)/float64(total-1)
}
