// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/depsvc/rcdep/deptree"
	"github.com/depsvc/rcdep/state"
)

// stateSnapshot is the on-disk shape of the --state demo file: a stand-in
// for the real service manager's live state store, which spec.md scopes
// out of this module's responsibility entirely.
type stateSnapshot struct {
	Services  map[string][]string `json:"services"`  // service -> state names
	Runlevels map[string][]string `json:"runlevels"` // runlevel -> service names
}

var stateNames = map[string]state.State{
	"started":     state.Started,
	"starting":    state.Starting,
	"stopping":    state.Stopping,
	"inactive":    state.Inactive,
	"stopped":     state.Stopped,
	"coldplugged": state.Coldplugged,
	"failed":      state.Failed,
}

func loadState(path string) (*state.Mock, error) {
	m := state.NewMock()
	if path == "" {
		return m, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state snapshot: %w", err)
	}
	var snap stateSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("parse state snapshot: %w", err)
	}
	for svc, names := range snap.Services {
		var bits state.State
		for _, n := range names {
			bits |= stateNames[n]
		}
		m.SetState(deptree.ServiceName(svc), bits)
	}
	for level, svcs := range snap.Runlevels {
		for _, svc := range svcs {
			m.AddToRunlevel(level, deptree.ServiceName(svc))
		}
	}
	return m, nil
}
