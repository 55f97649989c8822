/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package main

import (
	"fmt"
	"os"

	"github.com/nabbar/localhost/config"
	"github.com/nabbar/localhost/duration"
	"github.com/nabbar/localhost/httpserver"
	"github.com/nabbar/localhost/logger"
	"github.com/nabbar/localhost/logger/level"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		watch    bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:     "localhost <config.toml>",
		Short:   "A configurable HTTP/1.1 origin server",
		Args:    cobra.ExactArgs(1),
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], watch, logLevel)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "log a warning when the configuration file changes")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: "+fmt.Sprint(level.ListLevels()))

	return cmd
}

func run(path string, watch bool, logLevel string) error {
	log := logger.New(level.Parse(logLevel))

	cfg, err := config.Load(path)
	if err != nil {
		log.WithError(err).Error("loading configuration")
		return err
	}

	srv, err := httpserver.New(cfg, log)
	if err != nil {
		log.WithError(err).Error("building server")
		return err
	}

	if watch {
		w, err := config.Watch(path)
		if err != nil {
			log.WithError(err).Error("watching configuration file")
			return err
		}
		go watchLoop(w, path, log)
	}

	log.WithFields(map[string]interface{}{
		"client_timeout": duration.Seconds(int64(cfg.ClientTimeoutSecs)).String(),
		"servers":        len(cfg.Servers),
	}).Info("serving")
	return srv.Run()
}

// watchLoop logs configuration-file changes. Applying a reloaded
// configuration requires rebuilding every listener and instance, so it
// is left to an operator-triggered restart rather than attempted here.
func watchLoop(w *config.Watcher, path string, log logger.Logger) {
	for range w.Changed() {
		log.WithField("path", path).Warn("configuration file changed, restart to apply")
	}
}
