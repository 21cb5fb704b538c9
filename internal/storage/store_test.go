package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/vehsim/internal/dynamo"
)

func testResult() *dynamo.Result {
	return &dynamo.Result{
		Samples: []dynamo.Sample{
			{Time: 0, Position: 0, Velocity: 5, EngineSpeed: 100},
			{Time: 0.01, Position: 0.05, Velocity: 5, Acceleration: 4.884876634991825, Throttle: 0.2},
			{Time: 0.02, Position: 0.10048848766349919, Velocity: 5.048848766349918, Brake: 0.1, Steer: -0.3},
		},
		StepsTaken: 2,
		Metrics: map[string]float64{
			"distance": 0.10048848766349919,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Scenario: "ramp", Dt: 0.01, Duration: 0.02}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "ramp" {
		t.Errorf("expected scenario 'ramp', got '%s'", meta.Scenario)
	}
	if meta.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", meta.Steps)
	}
	if meta.Metrics["distance"] != 0.10048848766349919 {
		t.Errorf("expected distance metric, got %f", meta.Metrics["distance"])
	}

	samples, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	want := testResult().Samples
	if len(samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(samples))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d: expected %+v, got %+v", i, want[i], samples[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(RunMetadata{Scenario: "coast"}, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "stray"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Scenario: "ramp"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, statesFile, trajectoryFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	if st.TrajectoryPath(runID) != filepath.Join(tmpDir, runID, trajectoryFile) {
		t.Errorf("unexpected trajectory path %s", st.TrajectoryPath(runID))
	}
}

func TestTrajectoryFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrajectory(&buf, testResult().Samples); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	expected := "0, 0\n0.01, 0.05\n0.02, 0.10048848766349919\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestSavedTrajectoryOneRowPerTick(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Scenario: "ramp"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	f, err := os.Open(st.TrajectoryPath(runID))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()

	times, positions, err := ReadTrajectory(f)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(times) != 2 {
		t.Fatalf("expected 2 rows for 2 ticks, got %d", len(times))
	}
	if times[1] != 0.01 || positions[1] != 0.05 {
		t.Errorf("expected last row (0.01, 0.05), got (%v, %v)", times[1], positions[1])
	}
}

func TestTrajectoryExactValues(t *testing.T) {
	samples := []dynamo.Sample{
		{Time: 0.1 + 0.2, Position: math.Pi * 1e5},
		{Time: 1.0 / 3.0, Position: math.Nextafter(150, 151)},
	}

	var buf bytes.Buffer
	if err := WriteTrajectory(&buf, samples); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	times, positions, err := ReadTrajectory(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	for i, s := range samples {
		if times[i] != s.Time || positions[i] != s.Position {
			t.Errorf("row %d: expected (%v, %v), got (%v, %v)", i, s.Time, s.Position, times[i], positions[i])
		}
	}
}

func TestReadTrajectoryErrors(t *testing.T) {
	if _, _, err := ReadTrajectory(strings.NewReader("0, 1, 2\n")); err == nil {
		t.Error("expected column count error")
	}
	if _, _, err := ReadTrajectory(strings.NewReader("0, abc\n")); err == nil {
		t.Error("expected parse error")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "r1", Scenario: "ramp"}, testResult().Samples); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if data.ID != "r1" || len(data.Positions) != 3 || data.Steer[2] != -0.3 {
		t.Errorf("unexpected export %+v", data)
	}
}
