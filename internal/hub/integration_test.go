package hub

import (
	"context"
	"testing"
	"time"

	"github.com/UkemeSkywalker/Quanta/internal/notification"
	"github.com/UkemeSkywalker/Quanta/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// One client, one workflow, end to end: the client sees the connection
// envelope followed by the workflow's full ordered progress stream.
func TestClientObservesWorkflowStream(t *testing.T) {
	h := NewHub(testLogger())
	conn := &fakeConn{}
	h.Connect("c1", conn)

	engine := workflow.NewEngine(&workflow.Config{
		WorkflowID: "job_42",
		UserID:     "u1",
		Query:      "test query",
		Stages: []workflow.Stage{
			{Name: "Research", Duration: 3 * time.Millisecond, Message: "researching"},
			{Name: "Data", Duration: 4 * time.Millisecond, Message: "crunching"},
		},
		Broadcaster: h,
		Logger:      testLogger(),
	})
	engine.Start(context.Background())

	require.Eventually(t, func() bool {
		envs := conn.envelopes(t)
		return len(envs) > 0 && envs[len(envs)-1].Type == notification.TypeWorkflowCompleted
	}, 5*time.Second, 5*time.Millisecond)

	envs := conn.envelopes(t)
	require.Len(t, envs, 6)

	assert.Equal(t, notification.TypeConnection, envs[0].Type)

	wantAgent := []string{"Research", "Research", "Data", "Data"}
	wantStatus := []string{"processing", "completed", "processing", "completed"}
	wantProgress := []float64{0, 50, 50, 100}
	for i := 0; i < 4; i++ {
		env := envs[i+1]
		assert.Equal(t, notification.TypeAgentStatus, env.Type)
		assert.Equal(t, "job_42", env.WorkflowID)
		assert.Equal(t, "u1", env.UserID)
		assert.Equal(t, wantAgent[i], env.Agent)
		assert.Equal(t, wantStatus[i], env.Status)
		assert.Equal(t, wantProgress[i], env.Progress)
	}

	final := envs[5]
	assert.Equal(t, notification.TypeWorkflowCompleted, final.Type)
	assert.Equal(t, float64(100), final.Progress)
	assert.Equal(t, 2, final.StagesCompleted)
}

// A workflow with no connected clients still runs to completion; its
// broadcasts are no-ops, not errors.
func TestWorkflowRunsWithoutClients(t *testing.T) {
	h := NewHub(testLogger())

	engine := workflow.NewEngine(&workflow.Config{
		WorkflowID: "job_43",
		UserID:     "u1",
		Query:      "test query",
		Stages: []workflow.Stage{
			{Name: "Research", Duration: time.Millisecond, Message: "researching"},
		},
		Broadcaster: h,
		Logger:      testLogger(),
	})
	engine.Start(context.Background())

	require.Eventually(t, func() bool {
		status, _ := engine.Status()
		return status == workflow.StatusCompleted
	}, 5*time.Second, time.Millisecond)

	assert.Equal(t, 0, h.Count())
}
