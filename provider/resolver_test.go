// SPDX-License-Identifier: Apache-2.0

package provider_test

import (
	"testing"

	"github.com/depsvc/rcdep/deptree"
	"github.com/depsvc/rcdep/option"
	"github.com/depsvc/rcdep/provider"
	"github.com/depsvc/rcdep/state"
	. "github.com/onsi/gomega"
)

func loggerDep(providers ...deptree.ServiceName) *deptree.DepInfo {
	tree := deptree.New()
	logger := tree.GetOrCreate("logger")
	for _, p := range providers {
		logger.AddEdge(deptree.TypeProvidedBy, p)
	}
	return logger
}

func TestResolveNoProvidedByReturnsNil(test *testing.T) {
	t := NewGomegaWithT(test)
	tree := deptree.New()
	bare := tree.GetOrCreate("sshd")
	got := provider.Resolve(bare, state.NewMock(), "default", "boot", 0)
	t.Expect(got).To(BeEmpty())
}

// Scenario 3: two providers both started in the runlevel collapses to
// ambiguity under the "do" layer, yielding an empty result.
func TestResolveAmbiguityCollapsesToEmpty(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng", "metalog")
	store := state.NewMock()
	store.AddToRunlevel("default", "syslog-ng").SetState("syslog-ng", state.Started)
	store.AddToRunlevel("default", "metalog").SetState("metalog", state.Started)

	got := provider.Resolve(logger, store, "default", "boot", 0)
	t.Expect(got).To(BeEmpty())
}

// Scenario 4: strict mode filters down to the provider that is actually a
// member of the runlevel, ignoring the other entirely.
func TestResolveStrictSelectsRunlevelMember(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng", "metalog")
	store := state.NewMock()
	store.AddToRunlevel("default", "syslog-ng")

	got := provider.Resolve(logger, store, "default", "boot", option.Strict)
	t.Expect(got).To(ConsistOf(deptree.ServiceName("syslog-ng")))
}

// Scenario 5: stop mode always returns the full providedby set, in tree
// order, regardless of state.
func TestResolveStopReturnsEverythingInTreeOrder(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("metalog", "syslog-ng")
	store := state.NewMock()

	got := provider.Resolve(logger, store, "default", "boot", option.Stop)
	t.Expect(got).To(Equal([]deptree.ServiceName{"metalog", "syslog-ng"}))
}

func TestResolveStartFallsBackToColdplugged(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng")
	store := state.NewMock()
	store.SetState("syslog-ng", state.Coldplugged)

	got := provider.Resolve(logger, store, "default", "boot", option.Start)
	t.Expect(got).To(ConsistOf(deptree.ServiceName("syslog-ng")))
}

func TestResolveStrictFallsThroughToLayerTableWhenNoMembers(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng")
	store := state.NewMock()

	// No provider is a runlevel/boot-level member, so the strict
	// membership filter collects nothing; per spec.md §4.4 rule 2 this
	// falls through to the general layer table rather than returning
	// empty, landing on the final catch-all ("list every provider").
	got := provider.Resolve(logger, store, "default", "boot", option.Strict)
	t.Expect(got).To(ConsistOf(deptree.ServiceName("syslog-ng")))
}

func TestResolveStrictFallsThroughToAmbiguityCollapse(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng", "metalog")
	store := state.NewMock()
	store.SetState("syslog-ng", state.Coldplugged|state.Started)
	store.SetState("metalog", state.Coldplugged|state.Started)

	// Neither provider is a runlevel/boot-level member, so the strict
	// membership filter collects nothing and the branch falls through.
	// The layer table then finds both coldplugged-elsewhere and started,
	// an ambiguity the "do" layer collapses to empty.
	got := provider.Resolve(logger, store, "default", "boot", option.Strict)
	t.Expect(got).To(BeEmpty())
}

func TestResolveFallsThroughToStartingInRunlevel(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng", "metalog")
	store := state.NewMock()
	store.AddToRunlevel("default", "syslog-ng").SetState("syslog-ng", state.Starting)
	store.AddToRunlevel("default", "metalog").SetState("metalog", state.Starting)

	got := provider.Resolve(logger, store, "default", "boot", 0)
	t.Expect(got).To(ConsistOf(deptree.ServiceName("syslog-ng"), deptree.ServiceName("metalog")))
}

func TestResolveSingleStartedInRunlevelWins(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng", "metalog")
	store := state.NewMock()
	store.AddToRunlevel("default", "syslog-ng").SetState("syslog-ng", state.Started)

	got := provider.Resolve(logger, store, "default", "boot", 0)
	t.Expect(got).To(ConsistOf(deptree.ServiceName("syslog-ng")))
}

func TestResolveColdplugElsewhereExcludesBootAndRunlevelMembers(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng")
	store := state.NewMock()
	store.AddToRunlevel("default", "syslog-ng").SetState("syslog-ng", state.Coldplugged|state.Started)

	// syslog-ng is both coldplugged and a runlevel member with Started;
	// it must win on the first inRunlevel/started layer, never fall to
	// the coldplugElsewhere layer.
	got := provider.Resolve(logger, store, "default", "boot", 0)
	t.Expect(got).To(ConsistOf(deptree.ServiceName("syslog-ng")))
}

func TestResolveNoMatchFallsThroughToFullSet(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng", "metalog")
	store := state.NewMock()
	store.SetState("syslog-ng", state.Failed)
	store.SetState("metalog", state.Failed)

	got := provider.Resolve(logger, store, "default", "boot", 0)
	t.Expect(got).To(Equal([]deptree.ServiceName{"syslog-ng", "metalog"}))
}

func TestResolveInBootLevelDistinctFromRunlevel(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng")
	store := state.NewMock()
	store.AddToRunlevel("boot", "syslog-ng").SetState("syslog-ng", state.Started)

	got := provider.Resolve(logger, store, "default", "boot", 0)
	t.Expect(got).To(ConsistOf(deptree.ServiceName("syslog-ng")))
}

func TestResolveInBootLevelNoOpWhenBootEqualsRunlevel(test *testing.T) {
	t := NewGomegaWithT(test)
	logger := loggerDep("syslog-ng")
	store := state.NewMock()
	store.SetState("syslog-ng", state.Stopped)

	// bootLevel == runlevel: the inBootLevel layers never fire because
	// they require bootLevel != runlevel. No layer matches, so the
	// final fallback returns the full providedby set unfiltered.
	got := provider.Resolve(logger, store, "boot", "boot", 0)
	t.Expect(got).To(ConsistOf(deptree.ServiceName("syslog-ng")))
}
