// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics exposes the prometheus collectors of the REST API.
// All collectors are registered on a dedicated registry, so tests may
// create independent instances.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fleetflow"

// Metrics keeps the HTTP and trip workflow collectors.
type Metrics struct {
	reg         *prometheus.Registry
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// New creates and registers the collectors on reg. A nil reg is
// replaced by a new registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of handled HTTP requests.",
		}, []string{"method", "route", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of handled HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trips",
			Name:      "transitions_total",
			Help:      "Number of requested trip transitions by outcome.",
		}, []string{"status", "outcome"}),
	}
}

// Middleware counts the requests and observes their latency.
// Unmatched routes are reported with an empty route label.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		m.requests.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(
			time.Since(start).Seconds(),
		)
	}
}

// ObserveTransition counts one trip transition attempt. The outcome
// is "applied" for successful transitions and the error kind name
// otherwise. Its signature matches the trips use case observers.
func (m *Metrics) ObserveTransition(requested model.TripStatus, err error) {
	status := "INVALID"
	if requested.Validate() == nil {
		status = requested.String()
	}
	outcome := "applied"
	if err != nil {
		outcome = cerr.KindOf(err).String()
	}
	m.transitions.WithLabelValues(status, outcome).Inc()
}

// Transitions returns the transitions counter for the given labels.
func (m *Metrics) Transitions(status, outcome string) prometheus.Counter {
	return m.transitions.WithLabelValues(status, outcome)
}

// Handler serves the registered collectors in the prometheus
// exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{
		Registry: m.reg,
	}))
}
