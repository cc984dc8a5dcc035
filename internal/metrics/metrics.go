/*
 * MIT License
 *
 * Copyright (c) 2026 sfnul-go contributors
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
 */

// Package metrics holds the process-wide prometheus collectors shared by the
// reactor and socket packages. These are the "misc. utilities" observability
// surface; none of them are required to satisfy any wire protocol, so they
// live under internal rather than being part of the public API.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ActiveWorkers is the configured size of the reactor's worker pool.
	ActiveWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sfnul",
		Subsystem: "reactor",
		Name:      "active_workers",
		Help:      "Number of worker goroutines currently driving the reactor pool.",
	})

	// ActiveStrands is the number of resources (sockets, listeners,
	// channels) currently bound to a strand.
	ActiveStrands = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sfnul",
		Subsystem: "reactor",
		Name:      "active_strands",
		Help:      "Number of resources currently bound to a reactor strand.",
	})

	// QueuedBytes tracks bytes_to_send / bytes_to_receive per socket kind.
	QueuedBytes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sfnul",
		Subsystem: "socket",
		Name:      "queued_bytes",
		Help:      "Bytes currently queued in a socket send or receive buffer.",
	}, []string{"transport", "direction"})

	// LinkSegments counts Link protocol segments processed per direction.
	LinkSegments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sfnul",
		Subsystem: "link",
		Name:      "segments_total",
		Help:      "Link protocol segments sent or received.",
	}, []string{"direction"})
)

func init() {
	prometheus.MustRegister(ActiveWorkers, ActiveStrands, QueuedBytes, LinkSegments)
}
