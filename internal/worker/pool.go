// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package worker converts batches of files to UTF-8 with a bounded pool of
// goroutines.
package worker // import "sub2utf.app/v2/internal/worker"

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"sub2utf.app/v2/internal/command"
	"sub2utf.app/v2/internal/encoding"
	"sub2utf.app/v2/internal/logging"
	"sub2utf.app/v2/internal/model"
	"sub2utf.app/v2/internal/storage"
)

// Invoker calls application commands.
type Invoker interface {
	Call(ctx context.Context, name string, args any) (any, error)
}

// NewPool creates a pool of n workers. Commands are executed by invoker.
func NewPool(invoker Invoker, n int) *Pool {
	self := &Pool{invoker: invoker, threshold: 1}
	self.g.SetLimit(max(n, 1))
	return self
}

// Pool handles a pool of workers.
type Pool struct {
	invoker   Invoker
	g         errgroup.Group
	sg        singleflight.Group
	threshold float64

	mu       sync.Mutex
	progress func(i int, r model.JobResult)
}

// WithConfidenceThreshold sets the confidence under which a detected encoding
// is reported as uncertain.
func (self *Pool) WithConfidenceThreshold(v float64) *Pool {
	self.threshold = v
	return self
}

// WithProgress sets fn, which is called on every status change of the job
// with index i. Calls are serialized.
func (self *Pool) WithProgress(fn func(i int, r model.JobResult)) *Pool {
	self.progress = fn
	return self
}

// Run converts jobs and returns their results in the same order. It returns
// when every job reached its final status or ctx is canceled, in which case
// unstarted jobs are reported with ctx error.
func (self *Pool) Run(ctx context.Context, jobs []model.Job,
) []model.JobResult {
	log := logging.FromContext(ctx).With(slog.Int("jobs", len(jobs)))
	log.Info("worker: created a batch of files")
	startTime := time.Now()

	results := make([]model.JobResult, len(jobs))
	for i := range jobs {
		results[i] = model.JobResult{Job: jobs[i], Status: model.StatusPending}
		self.report(i, results[i])
	}

	for i := range jobs {
		if err := ctx.Err(); err != nil {
			self.finish(i, &results[i], model.StatusError, err)
			continue
		}
		self.g.Go(func() error {
			self.process(ctx, i, &results[i])
			return nil
		})
	}
	_ = self.g.Wait()

	log.Info("worker: converted a batch of files",
		slog.Duration("elapsed", time.Since(startTime)))
	return results
}

func (self *Pool) process(ctx context.Context, i int, r *model.JobResult) {
	log := logging.FromContext(ctx).With(slog.Int("job", i+1),
		slog.String("path", r.Path))
	ctx = logging.WithLogger(ctx, log)
	log.Debug("worker: job received")

	if err := ctx.Err(); err != nil {
		self.finish(i, r, model.StatusError, err)
		return
	}

	r.Output = OutputPath(r.Path, r.Language)
	// Identical jobs share a single conversion.
	key := strings.Join([]string{r.Output, r.Path, r.Encoding}, "\x00")
	v, err, shared := self.sg.Do(key, func() (any, error) {
		return self.convert(ctx, i, r), nil
	})
	if err != nil {
		self.finish(i, r, model.StatusError, err)
		return
	}

	if shared {
		log.Debug("worker: job shared with another one")
		res := v.(model.JobResult)
		res.Job = r.Job
		*r = res
		self.report(i, *r)
	}

	if r.Err != nil {
		log.Warn("worker: job failed", slog.Any("error", r.Err))
	}
}

func (self *Pool) convert(ctx context.Context, i int, r *model.JobResult,
) model.JobResult {
	log := logging.FromContext(ctx)
	self.setStatus(i, r, model.StatusDetecting)

	data, err := storage.ReadFile(r.Path)
	if err != nil {
		return self.finish(i, r, model.StatusError, err)
	}

	label := r.Encoding
	if label == "" {
		label, err = self.detect(ctx, data)
		if err != nil {
			return self.finish(i, r, model.StatusError, err)
		}
		r.Detected = label
		if encoding.IsUTF8(label) {
			log.Info("worker: file is UTF-8 already, skipped")
			return self.finish(i, r, model.StatusSkipped, nil)
		}
	} else if _, name := encoding.Lookup(label); name == "" {
		return self.finish(i, r, model.StatusError,
			model.NewUnknownEncodingError(label))
	}
	self.setStatus(i, r, model.StatusReady)

	self.setStatus(i, r, model.StatusProcessing)
	text, err := self.call(ctx, command.ConvertToUTF8,
		command.ConvertToUTF8Args{Data: data, Encoding: label})
	if err != nil {
		return self.finish(i, r, model.StatusError, err)
	}

	_, err = self.invoker.Call(ctx, command.SaveFile,
		command.SaveFileArgs{Path: r.Output, Content: text})
	if err != nil {
		return self.finish(i, r, model.StatusError, err)
	}

	log.Info("worker: file converted", slog.String("encoding", label),
		slog.String("output", r.Output))
	return self.finish(i, r, model.StatusDone, nil)
}

func (self *Pool) detect(ctx context.Context, data []byte) (string, error) {
	v, err := self.invoker.Call(ctx, command.DetectEncoding,
		command.DetectEncodingArgs{Data: data})
	if err != nil {
		return "", err
	}

	d, ok := v.(model.Detection)
	if !ok {
		return "", fmt.Errorf("worker: unexpected detection result %T", v)
	}

	if d.Confidence < self.threshold {
		logging.FromContext(ctx).Warn("worker: detected encoding is uncertain",
			slog.String("encoding", d.Encoding),
			slog.Float64("confidence", d.Confidence))
	}
	return d.Encoding, nil
}

func (self *Pool) call(ctx context.Context, name string, args any,
) (string, error) {
	v, err := self.invoker.Call(ctx, name, args)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("worker: unexpected %q result %T", name, v)
	}
	return s, nil
}

func (self *Pool) setStatus(i int, r *model.JobResult, s model.FileStatus) {
	r.Status = s
	self.report(i, *r)
}

func (self *Pool) finish(i int, r *model.JobResult, s model.FileStatus,
	err error,
) model.JobResult {
	r.Status, r.Err = s, err
	self.report(i, *r)
	return *r
}

func (self *Pool) report(i int, r model.JobResult) {
	if self.progress == nil {
		return
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	self.progress(i, r)
}

var srtExt = regexp.MustCompile(`(?i)\.srt$`)

// OutputPath returns the path of converted file, next to the original one:
// movie.srt becomes movie.<lang>.srt.
func OutputPath(path, lang string) string {
	dir, name := filepath.Split(path)
	name = srtExt.ReplaceAllString(name, "")
	return filepath.Join(dir, name+"."+lang+".srt")
}
