package workflow

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_HappyPath(t *testing.T) {
	var seen []State
	m := New(func(from, to State, ev Event) { seen = append(seen, to) })

	require.NoError(t, m.Fire(EventSubmit))
	assert.Equal(t, Generating, m.State())
	require.NoError(t, m.Fire(EventGenerated))
	require.NoError(t, m.Fire(EventEditAbout, EventAboutSaved))
	assert.Equal(t, ProposalReady, m.State())
	require.NoError(t, m.Fire(EventRequestDownload, EventOpenLeadForm))
	require.NoError(t, m.Fire(EventLeadCaptured))
	require.NoError(t, m.Fire(EventExported, EventReset))

	assert.Equal(t, Idle, m.State())
	assert.Equal(t, []State{
		Generating, ProposalReady, EditingAbout, ProposalReady,
		DownloadRequested, LeadFormOpen, LeadCaptured, DocumentExported, Idle,
	}, seen)
}

func TestMachine_GenerationFailedRetry(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.Fire(EventSubmit, EventGenerationFailed))
	assert.Equal(t, GenerationFailed, m.State())

	assert.False(t, m.Can(EventRequestDownload))
	assert.False(t, m.Can(EventEditAbout))
	require.NoError(t, m.Fire(EventSubmit))
	assert.Equal(t, Generating, m.State())
}

func TestMachine_LeadFailureReturnsToForm(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.Fire(EventSubmit, EventGenerated, EventRequestDownload, EventOpenLeadForm, EventLeadFailed))
	assert.Equal(t, LeadCaptureFailed, m.State())

	// без успешной формы экспорт недоступен
	assert.ErrorIs(t, m.Fire(EventExported), ErrIllegalTransition)

	require.NoError(t, m.Fire(EventOpenLeadForm, EventLeadCaptured))
	assert.Equal(t, LeadCaptured, m.State())
}

func TestMachine_IllegalChainIsAtomic(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.Fire(EventSubmit, EventGenerated))

	err := m.Fire(EventRequestDownload, EventLeadCaptured)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalTransition))
	assert.Equal(t, ProposalReady, m.State())
}

func TestMachine_NoConcurrentGeneration(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.Fire(EventSubmit))
	assert.ErrorIs(t, m.Fire(EventSubmit), ErrIllegalTransition)
}

func TestMachine_Cancel(t *testing.T) {
	for _, chain := range [][]Event{
		{EventRequestDownload},
		{EventRequestDownload, EventOpenLeadForm},
		{EventRequestDownload, EventOpenLeadForm, EventLeadFailed},
		{EventRequestDownload, EventOpenLeadForm, EventLeadCaptured},
	} {
		m := New(nil)
		require.NoError(t, m.Fire(EventSubmit, EventGenerated))
		require.NoError(t, m.Fire(chain...))
		require.NoError(t, m.Fire(EventCancel))
		assert.Equal(t, ProposalReady, m.State())
	}
}

func TestMachine_ConcurrentSubmitOnlyOneWins(t *testing.T) {
	m := New(nil)
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Fire(EventSubmit) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestNext_Unknown(t *testing.T) {
	state, err := Next(Idle, EventExported)
	assert.Equal(t, Idle, state)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Contains(t, err.Error(), "idle --exported-->")
}
