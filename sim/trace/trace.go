package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelAcquisitions captures every acquisition attempt.
	TraceLevelAcquisitions TraceLevel = "acquisitions"
	// TraceLevelAll additionally captures every broadcast delivered.
	TraceLevelAll TraceLevel = "all"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:         true,
	TraceLevelAcquisitions: true,
	TraceLevelAll:          true,
	"":                     true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a simulation run.
type SimulationTrace struct {
	Config       TraceConfig
	Broadcasts   []BroadcastRecord
	Acquisitions []AcquisitionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:       config,
		Broadcasts:   make([]BroadcastRecord, 0),
		Acquisitions: make([]AcquisitionRecord, 0),
	}
}

// RecordBroadcast appends a broadcast record when the level is "all".
func (st *SimulationTrace) RecordBroadcast(record BroadcastRecord) {
	if st.Config.Level != TraceLevelAll {
		return
	}
	st.Broadcasts = append(st.Broadcasts, record)
}

// RecordAcquisition appends an acquisition record unless tracing is off.
func (st *SimulationTrace) RecordAcquisition(record AcquisitionRecord) {
	if st.Config.Level == TraceLevelNone || st.Config.Level == "" {
		return
	}
	st.Acquisitions = append(st.Acquisitions, record)
}
