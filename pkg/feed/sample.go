package feed

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// MaxSample is the number of entries in the sample catalogue.
const MaxSample = 50

// ErrSampleSize is returned when more samples are requested than exist.
var ErrSampleSize = errors.New("sample size must be between 0 and 50")

// catalogue holds well-formed demo records with distinct product ids.
var catalogue = [MaxSample]record.Fields{
	{ProductID: "MZXK", PieceName: "Screw", PieceID: "FP8K", TimeEntry: "17:23:05", TimeExit: "18:14:24"},
	{ProductID: "CQA8", PieceName: "Bolt", PieceID: "07HA", TimeEntry: "21:16:56", TimeExit: "22:48:55"},
	{ProductID: "VMMW", PieceName: "Stud", PieceID: "ZWDI", TimeEntry: "15:06:49", TimeExit: "16:18:57"},
	{ProductID: "TGK3", PieceName: "Nut", PieceID: "XUNF", TimeEntry: "14:25:11", TimeExit: "15:32:32"},
	{ProductID: "9WYR", PieceName: "Washer", PieceID: "FEH4", TimeEntry: "00:05:15", TimeExit: "01:13:16"},
	{ProductID: "SZ5I", PieceName: "Rivet", PieceID: "7RM1", TimeEntry: "02:44:29", TimeExit: "17:12:56"},
	{ProductID: "EWG4", PieceName: "Insert", PieceID: "CRUX", TimeEntry: "20:06:48", TimeExit: "20:24:35"},
	{ProductID: "VJMJ", PieceName: "Standoff", PieceID: "8DJC", TimeEntry: "08:12:56", TimeExit: "08:44:10"},
	{ProductID: "KMU7", PieceName: "Thread_insert", PieceID: "TDNR", TimeEntry: "00:49:27", TimeExit: "01:54:08"},
	{ProductID: "O3EV", PieceName: "Pin", PieceID: "OWP9", TimeEntry: "20:15:39", TimeExit: "21:55:43"},
	{ProductID: "CSUF", PieceName: "Locking_pin", PieceID: "OKJ8", TimeEntry: "06:11:57", TimeExit: "06:41:28"},
	{ProductID: "KJD2", PieceName: "Clevis_pin", PieceID: "69NI", TimeEntry: "00:15:44", TimeExit: "01:19:12"},
	{ProductID: "6VF2", PieceName: "Shim", PieceID: "C2Q0", TimeEntry: "03:32:07", TimeExit: "15:08:36"},
	{ProductID: "JZ3E", PieceName: "Spacer", PieceID: "31R1", TimeEntry: "05:39:18", TimeExit: "06:26:36"},
	{ProductID: "O81V", PieceName: "Hose_clamp", PieceID: "P57B", TimeEntry: "01:14:21", TimeExit: "06:54:04"},
	{ProductID: "FIBN", PieceName: "Fixing_clip", PieceID: "79Y9", TimeEntry: "21:07:49", TimeExit: "23:29:03"},
	{ProductID: "1X2G", PieceName: "Cable_tie", PieceID: "ZU78", TimeEntry: "13:34:09", TimeExit: "20:42:53"},
	{ProductID: "P4UN", PieceName: "Toggle_clamp", PieceID: "EN1E", TimeEntry: "01:47:35", TimeExit: "06:54:04"},
	{ProductID: "GOA5", PieceName: "Spring_plunger", PieceID: "CWTD", TimeEntry: "02:17:06", TimeExit: "05:11:44"},
	{ProductID: "3SMH", PieceName: "Locating_pin", PieceID: "4VOS", TimeEntry: "01:51:00", TimeExit: "02:23:52"},
	{ProductID: "H0WY", PieceName: "Ball_plunger", PieceID: "1A97", TimeEntry: "13:13:48", TimeExit: "15:01:50"},
	{ProductID: "DQUY", PieceName: "HingesHinge", PieceID: "SMWR", TimeEntry: "21:46:30", TimeExit: "22:12:20"},
	{ProductID: "CQIC", PieceName: "Lid_stay", PieceID: "W3PF", TimeEntry: "16:26:28", TimeExit: "21:49:39"},
	{ProductID: "U4VQ", PieceName: "Lock", PieceID: "ZGO3", TimeEntry: "05:50:57", TimeExit: "09:25:50"},
	{ProductID: "CUF4", PieceName: "Draw_latche", PieceID: "VMU7", TimeEntry: "00:23:23", TimeExit: "05:11:44"},
	{ProductID: "IJLM", PieceName: "Latche", PieceID: "OS34", TimeEntry: "02:12:03", TimeExit: "10:52:56"},
	{ProductID: "PZXQ", PieceName: "Strike_plate", PieceID: "6EKY", TimeEntry: "00:32:44", TimeExit: "00:32:49"},
	{ProductID: "58WE", PieceName: "Locking_insert", PieceID: "8F5F", TimeEntry: "13:23:11", TimeExit: "13:55:21"},
	{ProductID: "8WPD", PieceName: "Cylinder_lock", PieceID: "Z97I", TimeEntry: "06:02:36", TimeExit: "07:16:15"},
	{ProductID: "FZM6", PieceName: "Locking_device", PieceID: "PP78", TimeEntry: "19:46:17", TimeExit: "20:14:13"},
	{ProductID: "BCWZ", PieceName: "SlidesSlide", PieceID: "4KKD", TimeEntry: "16:59:08", TimeExit: "18:45:35"},
	{ProductID: "EZV0", PieceName: "HandlesHandle", PieceID: "1LV6", TimeEntry: "11:26:24", TimeExit: "12:44:01"},
	{ProductID: "88NX", PieceName: "Clamping_lever", PieceID: "OYKH", TimeEntry: "18:03:26", TimeExit: "19:44:34"},
	{ProductID: "J12I", PieceName: "Knob", PieceID: "9P1V", TimeEntry: "01:55:09", TimeExit: "02:22:50"},
	{ProductID: "U4G1", PieceName: "Lever", PieceID: "B8H0", TimeEntry: "16:33:28", TimeExit: "17:05:43"},
	{ProductID: "NPUT", PieceName: "Handwheel", PieceID: "V4CQ", TimeEntry: "07:23:21", TimeExit: "08:49:21"},
	{ProductID: "01UX", PieceName: "Crank_handle", PieceID: "MFBV", TimeEntry: "21:08:15", TimeExit: "23:13:51"},
	{ProductID: "6KMP", PieceName: "PlugsPlug", PieceID: "FS9O", TimeEntry: "03:14:06", TimeExit: "05:45:55"},
	{ProductID: "LCM5", PieceName: "Cap", PieceID: "COFX", TimeEntry: "22:14:34", TimeExit: "23:11:57"},
	{ProductID: "G9JN", PieceName: "SpringsSpring", PieceID: "HIMV", TimeEntry: "17:17:41", TimeExit: "17:42:58"},
	{ProductID: "E1B0", PieceName: "Air_spring", PieceID: "RHAK", TimeEntry: "13:45:10", TimeExit: "15:11:01"},
	{ProductID: "M386", PieceName: "Gas_spring", PieceID: "DUBL", TimeEntry: "23:38:31", TimeExit: "23:49:00"},
	{ProductID: "NJ1S", PieceName: "Damper", PieceID: "3OD6", TimeEntry: "09:06:38", TimeExit: "11:12:15"},
	{ProductID: "BPUQ", PieceName: "Shock_damper", PieceID: "03GQ", TimeEntry: "04:10:19", TimeExit: "05:26:05"},
	{ProductID: "FLSZ", PieceName: "Stop", PieceID: "MDBV", TimeEntry: "12:30:05", TimeExit: "15:52:40"},
	{ProductID: "5VWJ", PieceName: "Bumper", PieceID: "49VM", TimeEntry: "23:23:16", TimeExit: "23:59:59"},
	{ProductID: "ENDV", PieceName: "Thrust_pad", PieceID: "JW06", TimeEntry: "11:35:10", TimeExit: "13:30:00"},
	{ProductID: "OEWD", PieceName: "Rotary_damper", PieceID: "AGPB", TimeEntry: "03:38:13", TimeExit: "05:39:13"},
	{ProductID: "BRVP", PieceName: "Other_damper", PieceID: "G1DJ", TimeEntry: "12:55:01", TimeExit: "15:38:11"},
	{ProductID: "8O1D", PieceName: "Wheel", PieceID: "L637", TimeEntry: "18:35:16", TimeExit: "19:20:12"},
}

// Sample returns the first n catalogue records.
func Sample(n int) ([]*record.Record, error) {
	if n < 0 || n > MaxSample {
		return nil, fmt.Errorf("%w: %d", ErrSampleSize, n)
	}

	out := make([]*record.Record, 0, n)
	for _, fields := range catalogue[:n] {
		out = append(out, record.MustNew(fields))
	}

	return out, nil
}
