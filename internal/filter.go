package internal

// ByPriority returns the tasks with the received priority keeping their order, when priority is nil
// tasks is returned as is.
func ByPriority(tasks []Task, priority *Priority) []Task {
	if priority == nil {
		return tasks
	}

	res := make([]Task, 0, len(tasks))

	for _, t := range tasks {
		if t.Priority == *priority {
			res = append(res, t)
		}
	}

	return res
}
