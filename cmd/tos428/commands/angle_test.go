package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NegativeAngle(t *testing.T) {
	tests := []struct {
		args    []string
		command string
	}{
		{args: []string{"setangle", "8", "-15"}, command: "setangle,all,8,-15"},
		{args: []string{"setangle", "4", "-5"}, command: "setangle,all,4,-5"},
		{args: []string{"setangle", "--", "4", "-5"}, command: "setangle,all,4,-5"},
		{args: []string{"-d", "setangle", "4", "-90"}, command: "setangle,all,4,-90"},
	}

	for _, test := range tests {
		t.Run(test.command, func(t *testing.T) {
			board := newSimulatedBoard()
			setupTest(t, board)

			res := run(test.args...)
			require.NoError(t, res.err)
			assert.Equal(t, "ok\n", res.out)
			assert.Equal(t, []string{test.command}, board.Commands())
		})
	}
}
