package cmd

import (
	"fmt"
	"sort"
)

// Task names accepted by the run command.
const (
	TaskClean    = "clean"
	TaskSetup    = "setup"
	TaskConnect  = "connect"
	TaskSyncTest = "sync-test"
)

// taskOrder fixes the relative execution order of tasks, regardless of the
// order they were supplied in.
var taskOrder = map[string]int{
	TaskClean:    0,
	TaskSetup:    1,
	TaskConnect:  2,
	TaskSyncTest: 3,
}

// normalizeTasks validates the supplied task names, removes duplicates, and
// returns them in fixed execution order.
func normalizeTasks(supplied []string) ([]string, error) {
	seen := make(map[string]bool, len(supplied))
	tasks := make([]string, 0, len(supplied))

	for _, t := range supplied {
		if _, ok := taskOrder[t]; !ok {
			return nil, fmt.Errorf("unknown task %q; valid tasks: %s, %s, %s, %s",
				t, TaskClean, TaskSetup, TaskConnect, TaskSyncTest)
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return taskOrder[tasks[i]] < taskOrder[tasks[j]]
	})
	return tasks, nil
}
