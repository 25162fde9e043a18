package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sanLimbu/todo-tracker/internal"
)

func newAddCmd(opts *options) *cobra.Command {
	var title, description, priority string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new task",
		Long:  `Add a new task, it is listed first. Priority is a number from 0 (Urgent) to 4 (None) or its label.`,
		Args:  cobra.NoArgs,
		RunE: run(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			store, err := a.tasks()
			if err != nil {
				return err
			}

			params := internal.CreateParams{
				Title:       title,
				Description: description,
			}

			if priority != "" {
				p, err := internal.ParsePriority(priority)
				if err != nil {
					return err
				}

				params.Priority = &p
			}

			if err := params.Validate(); err != nil {
				return err
			}

			task, err := store.Add(cmd.Context(), params)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Task created: %s\n", task.ID)
			printTask(cmd.OutOrStdout(), task)

			return nil
		}),
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Task title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Task priority, defaults to None")

	if err := cmd.MarkFlagRequired("title"); err != nil {
		panic(fmt.Sprintf("Failed to mark title flag as required: %v", err))
	}

	return cmd
}

func newEditCmd(opts *options) *cobra.Command {
	var (
		title, description, priority string
		completed                    bool
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a task",
		Long:  `Edit a task, only the flags given are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(cmd *cobra.Command, args []string, a *app) error {
			store, err := a.tasks()
			if err != nil {
				return err
			}

			task, err := store.Task(args[0])
			if err != nil {
				return err
			}

			params := internal.UpdateParams{
				Title:       task.Title,
				Description: task.Description,
				Priority:    task.Priority,
				Completed:   task.Completed,
			}

			flags := cmd.Flags()

			if flags.Changed("title") {
				params.Title = title
			}

			if flags.Changed("description") {
				params.Description = description
			}

			if flags.Changed("completed") {
				params.Completed = completed
			}

			if flags.Changed("priority") {
				if params.Priority, err = internal.ParsePriority(priority); err != nil {
					return err
				}
			}

			if err := params.Validate(); err != nil {
				return err
			}

			if err := store.Update(cmd.Context(), task.ID, params); err != nil {
				return err
			}

			if task, err = store.Task(task.ID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Task updated: %s\n", task.ID)
			printTask(cmd.OutOrStdout(), task)

			return nil
		}),
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Task title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Task priority")
	cmd.Flags().BoolVarP(&completed, "completed", "c", false, "Task completion")

	return cmd
}

func newRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(cmd *cobra.Command, args []string, a *app) error {
			store, err := a.tasks()
			if err != nil {
				return err
			}

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Task removed: %s\n", args[0])

			return nil
		}),
	}
}

func newToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip the completion of a task",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(cmd *cobra.Command, args []string, a *app) error {
			store, err := a.tasks()
			if err != nil {
				return err
			}

			if _, err := store.Task(args[0]); err != nil {
				return err
			}

			if err := store.ToggleComplete(cmd.Context(), args[0]); err != nil {
				return err
			}

			task, err := store.Task(args[0])
			if err != nil {
				return err
			}

			printTask(cmd.OutOrStdout(), task)

			return nil
		}),
	}
}

func newListCmd(opts *options) *cobra.Command {
	var priority string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  `List tasks, most recent first.`,
		Args:  cobra.NoArgs,
		RunE: run(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			store, err := a.tasks()
			if err != nil {
				return err
			}

			var filter *internal.Priority

			if priority != "" {
				p, err := internal.ParsePriority(priority)
				if err != nil {
					return err
				}

				filter = &p
			}

			tasks := internal.ByPriority(store.List(), filter)
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}

			for _, task := range tasks {
				printTask(cmd.OutOrStdout(), task)
			}

			return nil
		}),
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Only list tasks with this priority")

	return cmd
}

func printTask(w io.Writer, task internal.Task) {
	status := "○"
	if task.Completed {
		status = "✓"
	}

	fmt.Fprintf(w, "%s [%s] %s (%s)\n", status, task.ID, task.Title, task.Priority)

	if task.Description != "" {
		fmt.Fprintf(w, "   %s\n", task.Description)
	}
}
