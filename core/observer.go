// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "time"

// Outcome describes one finished operation. It never carries the credential
// or the asset content.
type Outcome struct {
	Op       string
	UAL      string
	Wallet   string
	Kind     Kind // empty on success
	Message  string
	Started  time.Time
	Duration time.Duration
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.Kind == "" }

// Observer receives outcomes synchronously after each operation.
type Observer interface {
	Observe(Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Outcome)

func (f ObserverFunc) Observe(o Outcome) { f(o) }

// Observers fans an outcome out to several observers.
type Observers []Observer

func (obs Observers) Observe(o Outcome) {
	for _, ob := range obs {
		if ob != nil {
			ob.Observe(o)
		}
	}
}
