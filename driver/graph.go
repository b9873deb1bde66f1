/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"bennypowers.dev/sapling/engine"
	"bennypowers.dev/sapling/internal/logger"
)

const graphHeader = "<!DOCTYPE html>\n<style>svg { width: 100%; }</style>\n\n"

// graphSession collects the engine's DOT graphs for one file. With dot on
// PATH they are rendered to log.html as SVG, otherwise written to log.dot.
type graphSession struct {
	parser *engine.Parser
	out    *os.File
	pipe   *os.File
	dot    *exec.Cmd
}

func startGraphs(parser *engine.Parser, dir string) (*graphSession, error) {
	g := &graphSession{parser: parser}

	dotPath, err := exec.LookPath("dot")
	if err != nil {
		logger.Debug("dot not found; writing raw graphs to log.dot")
		f, err := os.Create(filepath.Join(dir, "log.dot"))
		if err != nil {
			return nil, err
		}
		g.out = f
		parser.PrintDotGraphs(f)
		return g, nil
	}

	html, err := os.Create(filepath.Join(dir, "log.html"))
	if err != nil {
		return nil, err
	}
	if _, err := html.WriteString(graphHeader); err != nil {
		html.Close()
		return nil, err
	}
	r, w, err := os.Pipe()
	if err != nil {
		html.Close()
		return nil, err
	}
	cmd := exec.Command(dotPath, "-Tsvg")
	cmd.Stdin = r
	cmd.Stdout = html
	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		html.Close()
		return nil, fmt.Errorf("starting dot: %w", err)
	}
	r.Close()

	g.out, g.pipe, g.dot = html, w, cmd
	parser.PrintDotGraphs(w)
	return g, nil
}

func (g *graphSession) finish() {
	g.parser.StopPrintingDotGraphs()
	if g.pipe != nil {
		g.pipe.Close()
		if err := g.dot.Wait(); err != nil {
			logger.Warn("dot: %v", err)
		}
	}
	if err := g.out.Close(); err != nil {
		logger.Warn("closing %s: %v", g.out.Name(), err)
	}
}
