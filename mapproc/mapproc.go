/*
Copyright © 2026 the PIQUANT authors.
This file is part of PIQUANT.

PIQUANT is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PIQUANT is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PIQUANT.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package mapproc runs the map sub-command's bounded worker pool (spec
// §4.10, §5): a stream of per-pixel spectrum jobs flows through
// read → setup → quantify (one spectrum per job; spectra from several
// detectors are not combined here), processed by N workers
// reading off a buffered job channel, with a single writer draining
// completed jobs in input order regardless of completion order.
package mapproc

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/science/quantify"
	"github.com/sirupsen/logrus"
)

// JobState mirrors the original job/worker vocabulary (Queued,
// Running, Done), replacing its polling-mutex implementation with
// buffered channels per Design Note "Map concurrency".
type JobState int

const (
	Queued JobState = iota
	Running
	Done
)

func (s JobState) String() string {
	switch s {
	case Queued:
		return "Queued"
	case Running:
		return "Running"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// JobInput is one unit of map work: a spectrum file, its position in
// the input stream (used to restore output order), and an optional
// PIXLISE PMC selector string.
type JobInput struct {
	SpectrumFile string
	SeqNumber    int
	PMCSelector  string
}

// Job tracks one unit of work end to end, including the per-job log
// sidecar convention carried over from the original per-pixel logging
// (spec §7 propagation policy).
type Job struct {
	Input JobInput
	State JobState

	Row      map[string]float64
	Err      error
	Elapsed  time.Duration
	logLines []string
}

// Log appends one line to the job's in-memory log sidecar.
func (j *Job) Log(format string, args ...interface{}) {
	j.logLines = append(j.logLines, fmt.Sprintf(format, args...))
}

// LogText joins the job's log sidecar lines, one per line, as written
// to the `<spectrumfile>_log.txt` sidecar file.
func (j *Job) LogText() string {
	out := ""
	for _, line := range j.logLines {
		out += line + "\n"
	}
	return out
}

// ReadFunc loads a raw spectrum for one job, given its selector.
type ReadFunc func(input JobInput) (*piquant.Spectrum, error)

// SetupFunc seeds a job's starting Material from its selector (e.g. a
// standards lookup or the default seed composition), run once per job
// before quantify.
type SetupFunc func(input JobInput) (*piquant.Material, error)

// Options configures one map run.
type Options struct {
	Workers    int
	MaxSpectra int

	Read  ReadFunc
	Setup SetupFunc

	Conditions piquant.Conditions
	ECF        *quantify.ECFTable
	Builder    quantify.Builder
	Quantify   quantify.Options

	Log logrus.FieldLogger
}

// Run drives the bounded worker pool over jobs and returns completed
// Jobs in input order. Workers pull from a single buffered channel;
// results stream back over a second channel and are slotted into a
// dense, seq-number-indexed output regardless of arrival order (spec
// §4.10 "writer drains results in input order").
func Run(jobs []JobInput, opt Options) ([]*Job, error) {
	if opt.Workers <= 0 {
		opt.Workers = 1
	}
	log := opt.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opt.MaxSpectra > 0 && len(jobs) > opt.MaxSpectra {
		jobs = jobs[:opt.MaxSpectra]
	}

	in := make(chan JobInput, len(jobs))
	out := make(chan *Job, len(jobs))
	for _, j := range jobs {
		in <- j
	}
	close(in)

	for w := 0; w < opt.Workers; w++ {
		go worker(in, out, opt, log)
	}

	results := make([]*Job, len(jobs))
	bySeq := make(map[int]int, len(jobs))
	for i, j := range jobs {
		bySeq[j.SeqNumber] = i
	}
	for range jobs {
		j := <-out
		idx, ok := bySeq[j.Input.SeqNumber]
		if !ok {
			continue
		}
		results[idx] = j
	}
	return results, nil
}

func worker(in <-chan JobInput, out chan<- *Job, opt Options, log logrus.FieldLogger) {
	for input := range in {
		start := time.Now()
		job := &Job{Input: input, State: Running}
		job.Log("running %s", input.SpectrumFile)

		row, err := process(input, opt, job)
		job.Elapsed = time.Since(start)
		job.State = Done
		if err != nil {
			job.Err = err
			job.Log("error: %v", err)
			log.WithFields(logrus.Fields{
				"file": input.SpectrumFile,
				"seq":  input.SeqNumber,
			}).WithError(err).Warn("map job failed")
		} else {
			job.Row = row
			job.Log("done in %v", job.Elapsed)
		}
		out <- job
	}
}

// process runs the per-job read -> setup -> quantify pipeline on the
// single spectrum Read returns; no combine-detectors step is run. The
// read step is retried through a bounded
// exponential backoff to absorb transient filesystem hiccups before
// failing the job outright.
func process(input JobInput, opt Options, job *Job) (map[string]float64, error) {
	var spectrum *piquant.Spectrum
	readOnce := func() error {
		s, err := opt.Read(input)
		if err != nil {
			return err
		}
		spectrum = s
		return nil
	}
	retryPolicy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.RetryNotify(readOnce, retryPolicy, func(err error, d time.Duration) {
		job.Log("read retry after %v: %v", d, err)
	}); err != nil {
		return nil, piquant.IOError("read", input.SpectrumFile, err)
	}

	material, err := opt.Setup(input)
	if err != nil {
		return nil, err
	}

	result, err := quantify.Run(spectrum, material, opt.Conditions, opt.ECF, opt.Builder, opt.Quantify)
	if err != nil && !piquant.IsWarning(err) {
		return nil, err
	}
	if err != nil {
		job.Log("quantify warning: %v", err)
	}

	row := make(map[string]float64, len(result.Fractions))
	for z, frac := range result.Fractions {
		el, ok := piquant.ElementByZ(z)
		if !ok {
			continue
		}
		row[el.Symbol] = frac
	}
	return row, nil
}
