package ym

// YmFrame is one 16-byte snapshot of AY/YM register state, plus the two
// virtual divisor registers (14, 15) the format overlays on top of the
// real 14-register chip for effect timing. Layout, by byte:
//
//	 0  fine period voice A                 8  P P P v v v v v   volume A (low 5) / prediv for fx1 (high 3)
//	 1  S S S S v v v v   coarse A / fx0     9  volume B (low 5)
//	 2  fine period voice B                10  volume C (low 5)
//	 3  S S S S v v v v   coarse B / fx1    11  envelope fine period
//	 4  fine period voice C                12  envelope coarse period
//	 5  - - - - v v v v   coarse C         13  envelope shape (0xFF = no write)
//	 6  P P P v v v v v   noise period (low 5) / prediv for fx0 (high 3)
//	 7  mixer                              14  divisor for fx0
//	                                       15  divisor for fx1
type YmFrame struct {
	Data [16]byte
}

// Vol returns the 5-bit volume/effect-amplitude field for voice chan
// (0=A,1=B,2=C).
func (f YmFrame) Vol(chan_ int) byte {
	return f.Data[VolAReg+chan_] & 0x1f
}

func (f YmFrame) fx0() fxCtrl { return fxCtrl(f.Data[TonePerACoarse]) }
func (f YmFrame) fx1() fxCtrl { return fxCtrl(f.Data[TonePerBCoarse]) }

// timerDivisor0/1 decode the two virtual divisor registers against their
// associated prediv byte (frame byte 6 for fx0, byte 8 for fx1).
func (f YmFrame) timerDivisor0() (uint32, bool) {
	return calculateTimerDivisor(f.Data[NoisePeriod], f.Data[14])
}

func (f YmFrame) timerDivisor1() (uint32, bool) {
	return calculateTimerDivisor(f.Data[VolAReg], f.Data[15])
}
