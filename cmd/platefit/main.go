// Package main fits the plate eigenfrequency constant to measured
// resonances. Input is a CSV of observed peak frequencies labeled with
// the pattern indices they produced; output is the constant C that best
// satisfies f = C*(m^2 + n^2), ready to paste into config.yaml.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/cymatics/config"
)

// Observation is one measured resonance: a frequency that produced a
// recognizable (m,n) pattern on the physical plate.
type Observation struct {
	Freq float64 `csv:"freq"`
	M    int     `csv:"m"`
	N    int     `csv:"n"`
}

func main() {
	input := flag.String("input", "", "CSV file of observations (freq,m,n)")
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	output := flag.String("output", "", "Path to write fitted config YAML (empty = print only)")
	flag.Parse()

	if *input == "" {
		log.Fatal("--input is required")
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open observations: %v", err)
	}
	defer f.Close()

	var observations []Observation
	if err := gocsv.Unmarshal(f, &observations); err != nil {
		log.Fatalf("failed to parse observations: %v", err)
	}
	if len(observations) == 0 {
		log.Fatal("no observations in input")
	}
	for i, obs := range observations {
		if obs.Freq <= 0 || obs.M < 1 || obs.N < 1 {
			log.Fatalf("observation %d out of range: %+v", i+1, obs)
		}
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	// Sum of squared relative errors across all observations. Relative
	// error keeps high-frequency modes from dominating the fit.
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			c := x[0]
			if c <= 0 {
				return 1e12
			}
			var sum float64
			for _, obs := range observations {
				predicted := c * float64(obs.M*obs.M+obs.N*obs.N)
				rel := (predicted - obs.Freq) / obs.Freq
				sum += rel * rel
			}
			return sum
		},
	}

	initX := []float64{cfg.Plate.Constant}
	result, err := optimize.Minimize(problem, initX, nil, &optimize.NelderMead{})
	if err != nil {
		log.Fatalf("fit failed: %v", err)
	}

	fitted := result.X[0]
	fmt.Printf("Fitted plate constant: %.4f Hz (residual %.6f, %d observations)\n",
		fitted, result.F, len(observations))

	// Per-observation report
	for _, obs := range observations {
		predicted := fitted * float64(obs.M*obs.M+obs.N*obs.N)
		fmt.Printf("  (%d,%d): measured %.1f Hz, predicted %.1f Hz (%+.1f%%)\n",
			obs.M, obs.N, obs.Freq, predicted, (predicted-obs.Freq)/obs.Freq*100)
	}

	if fitted < 10 || fitted > 2000 {
		fmt.Println("warning: fitted constant outside the supported [10, 2000] range, it will be clamped at load time")
	}

	if *output != "" {
		cfg.Plate.Constant = fitted
		if err := cfg.WriteYAML(*output); err != nil {
			log.Fatalf("failed to write fitted config: %v", err)
		}
		fmt.Printf("Fitted config saved to: %s\n", *output)
	}
}
