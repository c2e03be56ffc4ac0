package decoders

// Data identifiers of the K701 engine control unit.
const (
	rpmDID            = 0x0100
	throttleDID       = 0x0001
	gripDID           = 0x0070
	tpsDID            = 0x0076
	coolantDID        = 0x0009
	gearDID           = 0x0031
	injectionTimeDID  = 0x0110
	clutchDID         = 0x0041
	o2VoltageDID      = 0x0012
	o2CompensationDID = 0x0102
	iapVoltageDID     = 0x0002
	iapDID            = 0x0003
	sideStandDID      = 0x0042
)

const (
	RPM            = "rpm"
	Throttle       = "throttle"
	Grip           = "grip"
	TPS            = "tps"
	Coolant        = "coolant"
	Gear           = "gear"
	InjectionTime  = "injection_time"
	Clutch         = "clutch"
	O2Voltage      = "o2_voltage"
	O2Compensation = "o2_compensation"
	IAPVoltage     = "iap_voltage"
	IAP            = "iap"
	SideStand      = "side_stand"
)

// K701Signals is the decode table for the K701 ECU.
var K701Signals = []Signal{
	{Name: RPM, ID: rpmDID, Start: 0, Size: 2, Scale: 0.25, Precision: NoRounding},
	{Name: Throttle, ID: throttleDID, Start: -1, Size: 1, Scale: 100.0 / 255.0, Precision: 1},
	{Name: Grip, ID: gripDID, Start: -1, Size: 1, Scale: 100.0 / 255.0, Precision: 1},
	{Name: TPS, ID: tpsDID, Start: 0, Size: 2, Scale: 100.0 / 1023.0, Precision: 1},
	{Name: Coolant, ID: coolantDID, Start: 0, Size: 2, Offset: -40, Precision: NoRounding},
	{Name: Gear, ID: gearDID, Start: 1, Size: 1, Precision: 0},
	{Name: InjectionTime, ID: injectionTimeDID, Start: 0, Size: 2, Scale: 0.001, Precision: 2},
	{Name: Clutch, ID: clutchDID, Start: -1, Size: 1, Mask: 0x01},
	{Name: O2Voltage, ID: o2VoltageDID, Start: 0, Size: 2, Scale: 0.001, Precision: 3},
	{Name: O2Compensation, ID: o2CompensationDID, Start: 0, Size: 2, Scale: 0.1, Precision: 1},
	{Name: IAPVoltage, ID: iapVoltageDID, Start: 0, Size: 2, Scale: 0.001, Precision: 3},
	{Name: IAP, ID: iapDID, Start: 0, Size: 2, Scale: 0.1, Precision: 1},
	{Name: SideStand, ID: sideStandDID, Start: -1, Size: 1, Mask: 0x01},
}

func K701() *SignalTable {
	return NewSignalTable(K701Signals)
}
