package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/vehsim/internal/config"
	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/experiment"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.WithField("module", "automation")

// Batch is a scripted sequence of runs loaded from YAML.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun starts from a preset (or the defaults) and applies Params on top.
type BatchRun struct {
	Name     string             `yaml:"name"`
	Scenario string             `yaml:"scenario"`
	Preset   string             `yaml:"preset"`
	Params   map[string]float64 `yaml:"params"`
}

type BatchResult struct {
	Name   string
	Config *config.Config
	Result *dynamo.Result
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(batch.Runs) == 0 {
		return nil, fmt.Errorf("%s: batch has no runs", path)
	}
	return &batch, nil
}

// Config resolves the run's configuration.
func (r BatchRun) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		cfg = config.GetPreset(r.Scenario, r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s", r.Scenario, r.Preset)
		}
	} else if r.Scenario != "" {
		cfg.Scenario = r.Scenario
	}
	for k, v := range r.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunBatch executes every run in order and stops at the first failure,
// returning the results gathered so far.
func RunBatch(ctx context.Context, batch *Batch, registry *experiment.Registry) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(batch.Runs))

	for i, run := range batch.Runs {
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", run.Scenario, i+1)
		}
		log.WithFields(logrus.Fields{"run": name, "index": i + 1, "total": len(batch.Runs)}).Info("batch run")

		cfg, err := run.Config()
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry, nil); err != nil {
			return results, fmt.Errorf("run %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}

		results = append(results, BatchResult{Name: name, Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep varies one setting across a range on top of Base.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	// Crossing is the position whose crossing time is reported.
	Crossing float64
}

type SweepResult struct {
	ParamValue    float64
	FinalPosition float64
	FinalVelocity float64
	MaxSpeed      float64
	CrossingTime  float64
	Crossed       bool
	Metrics       map[string]float64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry, nil); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		r := SweepResult{ParamValue: paramVal, Metrics: result.Metrics}
		if n := len(result.Samples); n > 0 {
			last := result.Samples[n-1]
			r.FinalPosition = last.Position
			r.FinalVelocity = last.Velocity
		}
		r.MaxSpeed = result.Metrics["max_speed"]
		r.CrossingTime, r.Crossed = result.CrossingTime(sweep.Crossing)

		results = append(results, r)
		log.WithFields(logrus.Fields{"step": i + 1, "total": sweep.NumSteps, sweep.ParamName: paramVal}).Debug("sweep step")
	}

	return results, nil
}

// MonteCarloConfig perturbs each listed vehicle or controller setting by a
// uniform relative amount in [-Perturbation, +Perturbation].
type MonteCarloConfig struct {
	Base         *config.Config
	Params       []string
	Perturbation float64
	NumTrials    int
	Seed         int64
	Metric       string
}

type MonteCarloResult struct {
	TrialID int
	Params  map[string]float64
	Value   float64
	// Stable reports the run finished with a finite state.
	Stable bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	base := cfg.Base.Clone()
	nominal := make(map[string]float64, len(cfg.Params))
	for _, name := range cfg.Params {
		v, err := base.GetParam(name)
		if err != nil {
			return nil, err
		}
		nominal[name] = v
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		runCfg := base.Clone()
		params := make(map[string]float64, len(cfg.Params))
		for _, name := range cfg.Params {
			v := nominal[name] * (1 + (rng.Float64()-0.5)*2*cfg.Perturbation)
			params[name] = v
			if err := runCfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}

		exp := experiment.New(runCfg)
		if err := exp.Setup(registry, nil); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		val := result.Metrics[cfg.Metric]
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Params:  params,
			Value:   val,
			Stable:  len(result.Errors) == 0 && !math.IsNaN(val) && !math.IsInf(val, 0),
		})

		if (trial+1)%10 == 0 {
			log.Infof("monte carlo: %d/%d trials complete", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats summarises the metric over stable trials.
func MonteCarloStats(results []MonteCarloResult) (mean, std float64, stableCount, unstableCount int) {
	var sum, sumSq float64
	for _, r := range results {
		if !r.Stable {
			unstableCount++
			continue
		}
		stableCount++
		sum += r.Value
		sumSq += r.Value * r.Value
	}
	if stableCount == 0 {
		return 0, 0, 0, unstableCount
	}
	n := float64(stableCount)
	mean = sum / n
	std = math.Sqrt(math.Max(0, sumSq/n-mean*mean))
	return mean, std, stableCount, unstableCount
}
