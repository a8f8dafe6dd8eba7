package lsm6dsv16b

// Main bank registers.
const (
	regFuncCfgAccess    = 0x01
	regPinCtrl          = 0x02
	regIfCfg            = 0x03
	regFIFOCtrl1        = 0x07
	regFIFOCtrl2        = 0x08
	regFIFOCtrl3        = 0x09
	regFIFOCtrl4        = 0x0a
	regCounterBDR1      = 0x0b
	regCounterBDR2      = 0x0c
	regInt1Ctrl         = 0x0d
	regInt2Ctrl         = 0x0e
	regWhoAmI           = 0x0f
	regCtrl1            = 0x10
	regCtrl2            = 0x11
	regCtrl3            = 0x12
	regCtrl4            = 0x13
	regCtrl5            = 0x14
	regCtrl6            = 0x15
	regCtrl7            = 0x16
	regCtrl8            = 0x17
	regCtrl9            = 0x18
	regCtrl10           = 0x19
	regCtrlStatus       = 0x1a
	regFIFOStatus1      = 0x1b
	regFIFOStatus2      = 0x1c
	regAllIntSrc        = 0x1d
	regStatus           = 0x1e
	regOutTempL         = 0x20
	regOutTempH         = 0x21
	regOutXLG           = 0x22
	regOutZLA           = 0x28
	regOutZLADualC      = 0x34
	regTimestamp0       = 0x40
	regWakeUpSrc        = 0x45
	regTapSrc           = 0x46
	regD6DSrc           = 0x47
	regEmbFuncStatusMP  = 0x49
	regFSMStatusMP      = 0x4a
	regInternalFreq     = 0x4f
	regFunctionsEnable  = 0x50
	regInactivityDur    = 0x54
	regInactivityThs    = 0x55
	regTapCfg0          = 0x56
	regTapCfg1          = 0x57
	regTapCfg2          = 0x58
	regTapThs6D         = 0x59
	regTapDur           = 0x5a
	regWakeUpThs        = 0x5b
	regWakeUpDur        = 0x5c
	regFreeFall         = 0x5d
	regMD1Cfg           = 0x5e
	regMD2Cfg           = 0x5f
	regEmbFuncCfg       = 0x63
	regTDMCfg0          = 0x6c
	regTDMCfg1          = 0x6d
	regTDMCfg2          = 0x6e
	regZOfsUsr          = 0x73
	regYOfsUsr          = 0x74
	regXOfsUsr          = 0x75
	regFIFODataOutTag   = 0x78
	regFIFODataOutByte0 = 0x79
)

// Embedded function bank registers.
const (
	embPageSel        = 0x02
	embFuncEnA        = 0x04
	embFuncEnB        = 0x05
	embFuncExecStatus = 0x07
	embPageAddress    = 0x08
	embPageValue      = 0x09
	embFuncInt1       = 0x0a
	embFSMInt1        = 0x0b
	embFuncInt2       = 0x0e
	embFSMInt2        = 0x0f
	embFuncStatus     = 0x12
	embFSMStatus      = 0x13
	embPageRW         = 0x17
	embFuncFIFOEnA    = 0x44
	embFSMEnable      = 0x46
	embFSMLongCounter = 0x48
	embFSMOuts1       = 0x4c
	embSFLPODR        = 0x5e
	embFSMODR         = 0x5f
	embStepCounterL   = 0x62
	embFuncSrc        = 0x64
	embFuncInitA      = 0x66
	embFuncInitB      = 0x67
)

// Embedded advanced feature page addresses, page number in bits 8-11.
const (
	pgSFLPGameGbiasXL   = 0x006e
	pgSFLPConfig        = 0x00d2
	pgFSMLCTimeoutL     = 0x017a
	pgFSMPrograms       = 0x017c
	pgFSMStartAddL      = 0x017e
	pgPedoCmdReg        = 0x0183
	pgPedoDebStepsConf  = 0x0184
	pgPedoSCDeltaTL     = 0x01d0
	defaultFSMStartAddr = 0x035c
)

// A field is a run of bits inside one register.
type field struct {
	reg   uint8
	shift uint8
	width uint8
}

func (f field) mask() uint8 {
	return uint8((1<<f.width)-1) << f.shift
}

func (f field) get(v uint8) uint8 {
	return (v & f.mask()) >> f.shift
}

func (f field) set(v, x uint8) uint8 {
	return v&^f.mask() | (x<<f.shift)&f.mask()
}

var (
	fldSWPor          = field{regFuncCfgAccess, 2, 1}
	fldFSMWrCtrlEn    = field{regFuncCfgAccess, 3, 1}
	fldEmbFuncAccess  = field{regFuncCfgAccess, 7, 1}
	fldIBHRPorEn      = field{regPinCtrl, 5, 1}
	fldSDOPuEn        = field{regPinCtrl, 6, 1}
	fldTDMWclkPuDis   = field{regPinCtrl, 7, 1}
	fldI2CI3CDisable  = field{regIfCfg, 0, 1}
	fldSIM            = field{regIfCfg, 2, 1}
	fldPPOD           = field{regIfCfg, 3, 1}
	fldHLActive       = field{regIfCfg, 4, 1}
	fldASFCtrl        = field{regIfCfg, 5, 1}
	fldTDMOutPuEn     = field{regIfCfg, 6, 1}
	fldSDAPuEn        = field{regIfCfg, 7, 1}
	fldWTM            = field{regFIFOCtrl1, 0, 8}
	fldXLDualCFSM     = field{regFIFOCtrl2, 0, 1}
	fldUncomprRate    = field{regFIFOCtrl2, 1, 2}
	fldODRChgEn       = field{regFIFOCtrl2, 4, 1}
	fldFIFOComprRTEn  = field{regFIFOCtrl2, 6, 1}
	fldStopOnWTM      = field{regFIFOCtrl2, 7, 1}
	fldBDRXL          = field{regFIFOCtrl3, 0, 4}
	fldBDRGY          = field{regFIFOCtrl3, 4, 4}
	fldFIFOMode       = field{regFIFOCtrl4, 0, 3}
	fldODRTBatch      = field{regFIFOCtrl4, 4, 2}
	fldDecTSBatch     = field{regFIFOCtrl4, 6, 2}
	fldCntBDRThH      = field{regCounterBDR1, 0, 2}
	fldTrigCounterBDR = field{regCounterBDR1, 5, 2}
	fldODRXL          = field{regCtrl1, 0, 4}
	fldOpModeXL       = field{regCtrl1, 4, 3}
	fldODRG           = field{regCtrl2, 0, 4}
	fldOpModeG        = field{regCtrl2, 4, 3}
	fldSWReset        = field{regCtrl3, 0, 1}
	fldIfInc          = field{regCtrl3, 2, 1}
	fldBDU            = field{regCtrl3, 6, 1}
	fldBoot           = field{regCtrl3, 7, 1}
	fldDRDYPulsed     = field{regCtrl4, 1, 1}
	fldInt2DRDYTemp   = field{regCtrl4, 2, 1}
	fldDRDYMask       = field{regCtrl4, 3, 1}
	fldInt2OnInt1     = field{regCtrl4, 4, 1}
	fldIntEnI3C       = field{regCtrl5, 0, 1}
	fldBusActSel      = field{regCtrl5, 1, 2}
	fldFSG            = field{regCtrl6, 0, 4}
	fldLPF1GBW        = field{regCtrl6, 4, 3}
	fldLPF1GEn        = field{regCtrl7, 0, 1}
	fldFSXL           = field{regCtrl8, 0, 2}
	fldXLDualCEn      = field{regCtrl8, 3, 1}
	fldHPLPF2XLBW     = field{regCtrl8, 5, 3}
	fldUsrOffOnOut    = field{regCtrl9, 0, 1}
	fldUsrOffW        = field{regCtrl9, 1, 1}
	fldLPF2XLEn       = field{regCtrl9, 3, 1}
	fldHPSlopeXLEn    = field{regCtrl9, 4, 1}
	fldXLFastSettl    = field{regCtrl9, 5, 1}
	fldHPRefModeXL    = field{regCtrl9, 6, 1}
	fldSTXL           = field{regCtrl10, 0, 2}
	fldSTG            = field{regCtrl10, 2, 2}
	fldXLSTOffset     = field{regCtrl10, 4, 1}
	fldEmbFuncDebug   = field{regCtrl10, 6, 1}
	fldFSMWrCtrlSt    = field{regCtrlStatus, 2, 1}
	fldFreqFine       = field{regInternalFreq, 0, 8}
	fldInactEn        = field{regFunctionsEnable, 0, 2}
	fldDisRstLIRAll   = field{regFunctionsEnable, 3, 1}
	fldTimestampEn    = field{regFunctionsEnable, 6, 1}
	fldInterruptsEn   = field{regFunctionsEnable, 7, 1}
	fldInactDur       = field{regInactivityDur, 0, 2}
	fldXLInactODR     = field{regInactivityDur, 2, 2}
	fldWuInactThsW    = field{regInactivityDur, 4, 3}
	fldSleepStatusInt = field{regInactivityDur, 7, 1}
	fldInactThs       = field{regInactivityThs, 0, 6}
	fldLIR            = field{regTapCfg0, 0, 1}
	fldTapXYZEn       = field{regTapCfg0, 1, 3}
	fldSlopeFDS       = field{regTapCfg0, 4, 1}
	fldHWMaskXLSettl  = field{regTapCfg0, 5, 1}
	fldLowPassOn6D    = field{regTapCfg0, 6, 1}
	fldTapThsZ        = field{regTapCfg1, 0, 5}
	fldTapPriority    = field{regTapCfg1, 5, 3}
	fldTapThsY        = field{regTapCfg2, 0, 5}
	fldTapThsX        = field{regTapThs6D, 0, 5}
	fldSixDThs        = field{regTapThs6D, 5, 2}
	fldTapShock       = field{regTapDur, 0, 2}
	fldTapQuiet       = field{regTapDur, 2, 2}
	fldTapDur         = field{regTapDur, 4, 4}
	fldWkThs          = field{regWakeUpThs, 0, 6}
	fldUsrOffOnWU     = field{regWakeUpThs, 6, 1}
	fldSingleDouble   = field{regWakeUpThs, 7, 1}
	fldSleepDur       = field{regWakeUpDur, 0, 4}
	fldWakeDur        = field{regWakeUpDur, 5, 2}
	fldFFDurHigh      = field{regWakeUpDur, 7, 1}
	fldFFThs          = field{regFreeFall, 0, 3}
	fldFFDur          = field{regFreeFall, 3, 5}
	fldIrqMaskXLSettl = field{regEmbFuncCfg, 4, 1}
	fldIrqMaskGSettl  = field{regEmbFuncCfg, 5, 1}
	fldTDMWclkBclkSel = field{regTDMCfg0, 0, 1}
	fldTDMWclk        = field{regTDMCfg0, 1, 2}
	fldTDMSlotSel     = field{regTDMCfg0, 4, 1}
	fldTDMBclkEdge    = field{regTDMCfg0, 5, 1}
	fldTDMDelayedCfg  = field{regTDMCfg0, 6, 1}
	fldTDMAxesOrd     = field{regTDMCfg1, 3, 2}
	fldTDMXLZEn       = field{regTDMCfg1, 5, 1}
	fldTDMXLYEn       = field{regTDMCfg1, 6, 1}
	fldTDMXLXEn       = field{regTDMCfg1, 7, 1}
	fldTDMFSXL        = field{regTDMCfg2, 0, 2}
	fldTDMDataMask    = field{regTDMCfg2, 3, 1}
)

// Embedded bank fields.
var (
	fldPageSel         = field{embPageSel, 4, 4}
	fldSFLPGameEn      = field{embFuncEnA, 1, 1}
	fldPedoEn          = field{embFuncEnA, 3, 1}
	fldTiltEn          = field{embFuncEnA, 4, 1}
	fldSignMotionEn    = field{embFuncEnA, 5, 1}
	fldFSMEn           = field{embFuncEnB, 0, 1}
	fldFIFOComprEn     = field{embFuncEnB, 3, 1}
	fldEmbFuncEndOp    = field{embFuncExecStatus, 0, 1}
	fldEmbFuncExecOvr  = field{embFuncExecStatus, 1, 1}
	fldPageRead        = field{embPageRW, 5, 1}
	fldPageWrite       = field{embPageRW, 6, 1}
	fldEmbFuncLIR      = field{embPageRW, 7, 1}
	fldSFLPGameFIFOEn  = field{embFuncFIFOEnA, 1, 1}
	fldSFLPGravFIFOEn  = field{embFuncFIFOEnA, 4, 1}
	fldSFLPGbiasFIFOEn = field{embFuncFIFOEnA, 5, 1}
	fldStepCntFIFOEn   = field{embFuncFIFOEnA, 6, 1}
	fldSFLPGameODR     = field{embSFLPODR, 3, 3}
	fldFSMODR          = field{embFSMODR, 3, 3}
	fldPedoRstStep     = field{embFuncSrc, 7, 1}
	fldSFLPGameInit    = field{embFuncInitA, 1, 1}
)

// Page bits of PEDO_CMD_REG.
const (
	pedoFPRejectionEn = 1 << 2
	pedoCarryCountEn  = 1 << 3
)
