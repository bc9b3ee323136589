package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/logic"

	"github.com/spf13/cobra"
)

func newListCmd(envs map[string]string) *cobra.Command {
	var search string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list [--search text] [--page n] [--page-size n]",
		Short: "List a page of employees matching search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				if err := l.Employees().SetQuery(data.EmployeeQuery{
					Search:   &search,
					PageSize: &pageSize,
				}); err != nil {
					return err
				}
				if err := l.Employees().SetPage(page); err != nil {
					return err
				}
				employeePage, err := l.Employees().View(ctx)
				if err != nil {
					return err
				}
				return printJson(cmd, employeePage)
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "delegate id or name to search for")
	cmd.Flags().IntVar(&page, "page", 0, "zero based page")
	cmd.Flags().IntVar(&pageSize, "page-size", logic.DefaultPageSize, "employees per page")
	return cmd
}

func newAddCmd(envs map[string]string) *cobra.Command {
	var firstName, lastName string
	var active bool

	cmd := &cobra.Command{
		Use:   "add --first-name name --last-name name",
		Short: "Add an employee, its ids are generated",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				form := l.EmployeeForm()
				for field, value := range map[string]string{
					data.FieldFirstName: firstName,
					data.FieldLastName:  lastName,
					data.FieldActive:    strconv.FormatBool(active),
				} {
					if err := form.Change(field, value); err != nil {
						return err
					}
				}
				employee, acknowledgement, err := form.Submit(ctx)
				if err != nil {
					return err
				}
				return printJson(cmd, &data.EmployeeResponse{
					Employee:        employee,
					Acknowledgement: acknowledgement,
				})
			})
		},
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().BoolVar(&active, "active", true, "whether the employee is active")
	return cmd
}

func newRenameCmd(envs map[string]string) *cobra.Command {
	var firstName, lastName string

	cmd := &cobra.Command{
		Use:   "rename <delegate_id> [--first-name name] [--last-name name]",
		Short: "Change the name of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				employee, err := l.Employees().Employee(ctx, args[0])
				if err != nil {
					return err
				}
				nameEditor := l.NameEditor()
				if err := nameEditor.Start(employee); err != nil {
					return err
				}
				if cmd.Flags().Changed("first-name") {
					if err := nameEditor.Change(data.FieldFirstName, firstName); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("last-name") {
					if err := nameEditor.Change(data.FieldLastName, lastName); err != nil {
						return err
					}
				}
				acknowledgement, err := nameEditor.Commit(ctx)
				if err != nil {
					return err
				}
				if employee, err = l.Employees().Employee(ctx, args[0]); err != nil {
					return err
				}
				return printJson(cmd, &data.EmployeeResponse{
					Employee:        employee,
					Acknowledgement: acknowledgement,
				})
			})
		},
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "new last name")
	return cmd
}

func newDeleteCmd(envs map[string]string) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete <delegate_id> --yes",
		Short: "Delete an employee and all of its courses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				list := l.Employees()
				if err := list.DeleteRequest(ctx, args[0]); err != nil {
					return err
				}
				if !confirm {
					list.DeleteCancel()
					employee, err := list.Employee(ctx, args[0])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) and all of its courses would be deleted, pass --yes to confirm\n",
						employee.FullName(), employee.DelegateId)
					return nil
				}
				acknowledgement, err := list.DeleteConfirm(ctx)
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

func newDashboardCmd(envs map[string]string) *cobra.Command {
	var filter data.DashboardFilter

	cmd := &cobra.Command{
		Use:   "dashboard [--country c] [--training-provider p] [--completed-on yyyy-mm-dd]",
		Short: "Summarize the course records of every employee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLogic(cmd, envs, func(ctx context.Context, l *logic.Logic) error {
				if err := l.Dashboard().SetFilter(filter); err != nil {
					return err
				}
				summary, err := l.Dashboard().Summary(ctx)
				if err != nil {
					return err
				}
				return printJson(cmd, summary)
			})
		},
	}
	cmd.Flags().StringVar(&filter.Country, "country", "", "only count courses taken in country")
	cmd.Flags().StringVar(&filter.TrainingProvider, "training-provider", "", "only count courses given by training provider")
	cmd.Flags().StringVar(&filter.CompletedOn, "completed-on", "", "only count courses completed on date")
	return cmd
}
