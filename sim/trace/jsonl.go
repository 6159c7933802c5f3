package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Line is one JSONL entry of an exported trace. Exactly one of the record
// pointers is set, matching Type.
type Line struct {
	Type        string             `json:"type"` // "broadcast" or "acquisition"
	Broadcast   *BroadcastRecord   `json:"broadcast,omitempty"`
	Acquisition *AcquisitionRecord `json:"acquisition,omitempty"`
}

const (
	lineBroadcast   = "broadcast"
	lineAcquisition = "acquisition"
)

// WriteJSONLZstd writes st as zstd-compressed JSON lines: broadcasts first,
// then acquisitions, each in recording order.
func WriteJSONLZstd(path string, st *SimulationTrace) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(enc)
	je := json.NewEncoder(w)

	for i := range st.Broadcasts {
		if err := je.Encode(Line{Type: lineBroadcast, Broadcast: &st.Broadcasts[i]}); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encoding trace: %w", err)
		}
	}
	for i := range st.Acquisitions {
		if err := je.Encode(Line{Type: lineAcquisition, Acquisition: &st.Acquisitions[i]}); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encoding trace: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadJSONLZstd loads a trace written by WriteJSONLZstd. The returned trace
// has level "all" so it can be summarized like a live one.
func ReadJSONLZstd(path string) (*SimulationTrace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	st := NewSimulationTrace(TraceConfig{Level: TraceLevelAll})
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		var line Line
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			return nil, fmt.Errorf("trace line %d: %w", lineNo, err)
		}
		switch {
		case line.Type == lineBroadcast && line.Broadcast != nil:
			st.Broadcasts = append(st.Broadcasts, *line.Broadcast)
		case line.Type == lineAcquisition && line.Acquisition != nil:
			st.Acquisitions = append(st.Acquisitions, *line.Acquisition)
		default:
			return nil, fmt.Errorf("trace line %d: unknown record type %q", lineNo, line.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return st, nil
}
