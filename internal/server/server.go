// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package server implements the HTTP dashboard and API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/vfilimonov/co2meter/co2mon"
	"github.com/vfilimonov/co2meter/internal/logbook"
	"github.com/vfilimonov/co2meter/internal/store"
)

// Opts configures the server surface.
type Opts struct {
	// Fahrenheit makes the dashboard display temperatures in °F.
	Fahrenheit bool
}

// Server wires the sample store, logbook, and monitor into HTTP
// handlers.
type Server struct {
	store *store.Buffer
	book  *logbook.Book
	mon   *co2mon.Monitor
	hub   *Hub
	opts  Opts
	log   logrus.FieldLogger

	// shutdown stops the whole process; wired by the command.
	shutdown func()
}

// New returns a server. shutdown may be nil, disabling /kill.
func New(st *store.Buffer, book *logbook.Book, mon *co2mon.Monitor, hub *Hub, opts Opts, log logrus.FieldLogger, shutdown func()) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{store: st, book: book, mon: mon, hub: hub, opts: opts, log: log, shutdown: shutdown}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.handleDashboard)
	r.GET("/latest", s.handleLatest)
	r.GET("/info", s.handleInfo)
	r.GET("/log", s.handleLog(true, false))
	r.GET("/session", s.handleLog(false, true))
	r.GET("/log.csv", s.handleDownload(true, true, "co2_log.csv"))
	r.GET("/session.csv", s.handleDownload(false, true, "co2_session.csv"))
	r.GET("/plot.png", s.handlePlot)
	r.GET("/ws", s.hub.Serve)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/kill", s.handleKill)
	return r
}

func (s *Server) handleLatest(c *gin.Context) {
	sample, ok := s.store.Latest()
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, sample)
}

func (s *Server) handleInfo(c *gin.Context) {
	dev := s.mon.Device()
	if dev == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "device not connected"})
		return
	}
	c.JSON(http.StatusOK, dev.Info())
}

func (s *Server) handleLog(main, sessions bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := s.book.Read(main, sessions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
	}
}

func (s *Server) handleDownload(main, sessions bool, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := s.book.Read(main, sessions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(doc))
	}
}

func (s *Server) handlePlot(c *gin.Context) {
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := Plot(c.Writer, s.store.Snapshot()); err != nil {
		s.log.WithError(err).Warn("plot rendering failed")
	}
}

func (s *Server) handleKill(c *gin.Context) {
	if s.shutdown == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "shutdown disabled"})
		return
	}
	c.String(http.StatusOK, "Shutting down...\n")
	go s.shutdown()
}
