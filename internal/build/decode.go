package build

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// wireBuild mirrors a build object on the wire. Optional fields are kept raw
// so a malformed value degrades to a placeholder instead of failing the
// whole document.
type wireBuild struct {
	ID         json.RawMessage `json:"id"`
	LegacyID   json.RawMessage `json:"_id"`
	Status     json.RawMessage `json:"status"`
	Workflow   json.RawMessage `json:"workflow"`
	WorkflowID json.RawMessage `json:"workflowId"`
	Branch     json.RawMessage `json:"branch"`
	StartedAt  json.RawMessage `json:"startedAt"`
	FinishedAt json.RawMessage `json:"finishedAt"`
	Duration   json.RawMessage `json:"duration"`
	Message    json.RawMessage `json:"message"`
	Artifacts  json.RawMessage `json:"artifacts"`
}

// DecodeBuild parses a single build document. Both a bare build object and
// one wrapped as {"build": {...}} are accepted.
func DecodeBuild(data []byte) (*Snapshot, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode build: %w", err)
	}
	if envelope == nil {
		return nil, errors.New("failed to decode build: document is null")
	}
	if inner, ok := envelope["build"]; ok && isObject(inner) {
		data = inner
	}

	var w wireBuild
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode build: %w", err)
	}
	return w.snapshot(), nil
}

// DecodeBuildList parses a {"builds": [...]} document. Entries that are not
// JSON objects are skipped; the number skipped is returned alongside.
func DecodeBuildList(data []byte) ([]Snapshot, int, error) {
	var doc struct {
		Builds *[]json.RawMessage `json:"builds"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("failed to decode build list: %w", err)
	}
	if doc.Builds == nil {
		return nil, 0, errors.New("failed to decode build list: missing builds array")
	}

	builds := make([]Snapshot, 0, len(*doc.Builds))
	skipped := 0
	for _, raw := range *doc.Builds {
		if !isObject(raw) {
			skipped++
			continue
		}
		var w wireBuild
		if err := json.Unmarshal(raw, &w); err != nil {
			skipped++
			continue
		}
		builds = append(builds, *w.snapshot())
	}
	return builds, skipped, nil
}

func (w *wireBuild) snapshot() *Snapshot {
	id := rawString(w.ID)
	if id == "" {
		id = rawString(w.LegacyID)
	}
	rawStatus := rawString(w.Status)
	workflow := rawWorkflow(w.Workflow)
	if workflow == "" {
		workflow = rawString(w.WorkflowID)
	}

	return &Snapshot{
		ID:         id,
		Status:     ParseStatus(rawStatus),
		RawStatus:  rawStatus,
		Workflow:   workflow,
		Branch:     rawString(w.Branch),
		StartedAt:  rawTime(w.StartedAt),
		FinishedAt: rawTime(w.FinishedAt),
		Duration:   rawSeconds(w.Duration),
		Message:    rawString(w.Message),
		Artifacts:  rawArtifacts(w.Artifacts),
	}
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// rawString accepts JSON strings and numbers; anything else is empty.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func rawWorkflow(raw json.RawMessage) string {
	if isObject(raw) {
		var wf struct {
			Name json.RawMessage `json:"name"`
		}
		if err := json.Unmarshal(raw, &wf); err == nil {
			return rawString(wf.Name)
		}
		return ""
	}
	return rawString(raw)
}

func rawTime(raw json.RawMessage) *time.Time {
	s := rawString(raw)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

// maxSeconds is the longest duration time.Duration can hold, in seconds.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// rawNumber accepts a non-negative number, either as a JSON number or a
// numeric string, below limit. Fractions are truncated.
func rawNumber(raw json.RawMessage, limit int64) (int64, bool) {
	s := rawString(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(f >= 0 && f < float64(limit)) {
		return 0, false
	}
	return int64(f), true
}

// rawSeconds decodes a duration in seconds. Values that don't fit a
// time.Duration are treated as missing.
func rawSeconds(raw json.RawMessage) *time.Duration {
	secs, ok := rawNumber(raw, maxSeconds)
	if !ok {
		return nil
	}
	d := time.Duration(secs) * time.Second
	return &d
}

func rawArtifacts(raw json.RawMessage) []Artifact {
	if len(raw) == 0 {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if !isObject(entry) {
			continue
		}
		var a struct {
			Name json.RawMessage `json:"name"`
			Size json.RawMessage `json:"size"`
		}
		if err := json.Unmarshal(entry, &a); err != nil {
			continue
		}
		size, _ := rawNumber(a.Size, math.MaxInt64)
		artifacts = append(artifacts, Artifact{
			Name: rawString(a.Name),
			Size: size,
		})
	}
	return artifacts
}
