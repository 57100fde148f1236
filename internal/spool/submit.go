package spool

import (
	"log"
	"sort"
	"strconv"
	"time"
)

// Options describes one print job. Immutable, built per request.
type Options struct {
	Copies    int               // clamped to a minimum of 1
	MediaSize string            // spooler media name, e.g. "A4" or "Letter"
	Grayscale bool
	FitToPage bool
	Extra     map[string]string // passed to the spooler verbatim as key=value
}

// JobResult is returned only when the spooler accepted the job (exit 0).
type JobResult struct {
	PrinterName string    `json:"printer_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submitter turns an image (bytes or an existing file) plus Options into a
// spooler submit command. Submission errors are typed and distinct from
// success; the caller's image data is never touched, so a print failure
// can stay a soft failure upstream.
type Submitter struct {
	discovery *Discovery
	scratch   *ScratchDir
	spooler   Spooler
}

// NewSubmitter wires a submitter over discovery, scratch storage and the
// spooler boundary.
func NewSubmitter(discovery *Discovery, scratch *ScratchDir, spooler Spooler) *Submitter {
	return &Submitter{
		discovery: discovery,
		scratch:   scratch,
		spooler:   spooler,
	}
}

// Submit prints an in-memory image. The bytes are materialized as a scratch
// file for the duration of the call; the file is released on every exit
// path, success or failure. Blocks until the spooler command exits.
func (s *Submitter) Submit(data []byte, opts Options) (JobResult, error) {
	target, err := s.discovery.FindFirstUsable()
	if err != nil {
		return JobResult{}, err
	}

	scratch, err := s.scratch.Materialize(data)
	if err != nil {
		return JobResult{}, err
	}
	defer func() {
		if rerr := s.scratch.Release(scratch); rerr != nil {
			log.Printf("[SPOOL] ⚠️ Failed to release scratch file %s: %v", scratch.Path, rerr)
		}
	}()

	return s.submitTo(target, scratch.Path, opts)
}

// SubmitFile prints an image that already exists on disk. The file belongs
// to the caller and is left in place.
func (s *Submitter) SubmitFile(path string, opts Options) (JobResult, error) {
	target, err := s.discovery.FindFirstUsable()
	if err != nil {
		return JobResult{}, err
	}
	return s.submitTo(target, path, opts)
}

func (s *Submitter) submitTo(target Printer, path string, opts Options) (JobResult, error) {
	res, err := s.spooler.SubmitJob(target.Name, path, buildSubmitArgs(opts))
	if err != nil {
		return JobResult{}, err
	}
	if res.ExitCode != 0 {
		return JobResult{}, &SubmissionError{
			Printer:  target.Name,
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}

	log.Printf("[SPOOL] 🖨️ Job accepted by printer %s (%s)", target.Name, path)
	return JobResult{PrinterName: target.Name, SubmittedAt: time.Now()}, nil
}

// buildSubmitArgs encodes Options as lp-style flags. Extra keys are sorted
// so the same Options always produce the same command line.
func buildSubmitArgs(opts Options) []string {
	copies := opts.Copies
	if copies < 1 {
		copies = 1
	}

	args := []string{"-n", strconv.Itoa(copies)}
	if opts.MediaSize != "" {
		args = append(args, "-o", "media="+opts.MediaSize)
	}
	if opts.Grayscale {
		args = append(args, "-o", "ColorModel=Gray")
	}
	if opts.FitToPage {
		args = append(args, "-o", "fit-to-page")
	}

	keys := make([]string, 0, len(opts.Extra))
	for k := range opts.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-o", k+"="+opts.Extra[k])
	}

	return args
}
