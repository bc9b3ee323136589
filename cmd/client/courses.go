package main

import (
	"context"
	"fmt"

	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/logic"

	"github.com/spf13/cobra"
)

func newCoursesCmd(envs map[string]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List, add, update and delete the courses of an employee",
	}
	cmd.AddCommand(newCoursesListCmd(envs))
	cmd.AddCommand(newCoursesAddCmd(envs))
	cmd.AddCommand(newCoursesUpdateCmd(envs))
	cmd.AddCommand(newCoursesDeleteCmd(envs))
	cmd.AddCommand(newCoursesCodesCmd(envs))
	return cmd
}

func newCoursesListCmd(envs map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "list <delegate_id>",
		Short: "List the courses of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				courseEditor, err := l.OpenCourseEditor(ctx, args[0])
				if err != nil {
					return err
				}
				records, err := courseEditor.Records(ctx)
				if err != nil {
					return err
				}
				return printJson(cmd, &data.CoursesResponse{
					DelegateId: args[0],
					Courses:    records,
				})
			})
		},
	}
}

func newCoursesAddCmd(envs map[string]string) *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "add <delegate_id> --set course_code=C-001 [--set field=value...]",
		Short: "Add a course to an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(pairs)
			if err != nil {
				return err
			}
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				courseEditor, err := l.OpenCourseEditor(ctx, args[0])
				if err != nil {
					return err
				}
				if err := courseEditor.AddStart(ctx); err != nil {
					return err
				}
				for _, field := range fields {
					if err := courseEditor.AddChange(field[0], field[1]); err != nil {
						return err
					}
				}
				course, _ := courseEditor.Adding()
				acknowledgement, err := courseEditor.AddSubmit(ctx)
				if err != nil {
					if course.CourseCode != "" {
						if suggestions := courseEditor.CourseCodeSuggestions(course.CourseCode); len(suggestions) > 0 {
							fmt.Fprintf(cmd.ErrOrStderr(), "known course codes like %q: %v\n",
								course.CourseCode, suggestions)
						}
					}
					return err
				}
				return printJson(cmd, acknowledgement)
			})
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "set", nil, "course field to set as field=value")
	return cmd
}

func newCoursesUpdateCmd(envs map[string]string) *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "update <delegate_id> <course_code> --set field=value...",
		Short: "Update a course of an employee, its code can't change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(pairs)
			if err != nil {
				return err
			}
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				courseEditor, err := l.OpenCourseEditor(ctx, args[0])
				if err != nil {
					return err
				}
				if err := courseEditor.EditStart(ctx, args[1]); err != nil {
					return err
				}
				for _, field := range fields {
					if err := courseEditor.EditChange(field[0], field[1]); err != nil {
						return err
					}
				}
				acknowledgement, err := courseEditor.EditSubmit(ctx)
				if err != nil {
					return err
				}
				return printJson(cmd, acknowledgement)
			})
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "set", nil, "course field to set as field=value")
	return cmd
}

func newCoursesDeleteCmd(envs map[string]string) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete <delegate_id> <course_code> --yes",
		Short: "Delete a course of an employee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				courseEditor, err := l.OpenCourseEditor(ctx, args[0])
				if err != nil {
					return err
				}
				if err := courseEditor.DeleteRequest(ctx, args[1]); err != nil {
					return err
				}
				if !confirm {
					courseEditor.DeleteCancel()
					fmt.Fprintf(cmd.OutOrStdout(), "course %s of %s would be deleted, pass --yes to confirm\n",
						args[1], args[0])
					return nil
				}
				acknowledgement, err := courseEditor.DeleteConfirm(ctx)
				if err != nil {
					return err
				}
				return printJson(cmd, acknowledgement)
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm the delete")
	return cmd
}

func newCoursesCodesCmd(envs map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "codes [query]",
		Short: "List the known course codes, closest to query first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string

			if len(args) > 0 {
				query = args[0]
			}
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				courseCodes, err := l.CourseCodes(ctx, query)
				if err != nil {
					return err
				}
				return printJson(cmd, &data.CourseCodesResponse{CourseCodes: courseCodes})
			})
		},
	}
}
