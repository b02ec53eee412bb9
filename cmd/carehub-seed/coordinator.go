package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bonchi/carehub/internal/app/seed"
	"github.com/spf13/cobra"
)

var errNothingToUpdate = errors.New("nothing to update; pass at least one field flag")

// profileFlags maps flag names to the coordinator fields they set.
var profileFlags = []struct{ name, usage string }{
	{"name", "full name"},
	{"district", "district"},
	{"state", "state"},
	{"designation", "designation, e.g. District Magistrate"},
	{"office-address", "office address"},
	{"password", "login password (letters and digits, 8+ chars)"},
}

func newCoordinatorCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coordinator",
		Short: "Manage the district coordinator account",
	}
	cmd.AddCommand(
		newCoordinatorCreateCmd(c),
		newCoordinatorUpdateCmd(c),
		newCoordinatorShowCmd(c),
		newCoordinatorDeleteCmd(c),
	)
	return cmd
}

func addProfileFlags(cmd *cobra.Command) {
	for _, f := range profileFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

func newCoordinatorCreateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the coordinator, replacing any account with the same mobile",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			in := seed.Coordinator{Mobile: c.v.GetString("mobile")}
			in.FullName, _ = f.GetString("name")
			in.Email, _ = f.GetString("email")
			in.Password, _ = f.GetString("password")
			in.District, _ = f.GetString("district")
			in.State, _ = f.GetString("state")
			in.Designation, _ = f.GetString("designation")
			in.OfficeAddress, _ = f.GetString("office-address")

			return c.withSeeder(cmd, func(ctx context.Context, s *seed.Seeder) error {
				res, err := s.CreateCoordinator(ctx, in)
				if err != nil {
					return err
				}
				verb := "created"
				if res.Replaced {
					verb = "recreated"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s district coordinator %s (%s)\n", verb, res.User.Mobile, res.User.ID.Hex())
				return nil
			})
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().String("email", "", "optional email address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("district")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// changes collects only the flags the user actually passed.
func changes(cmd *cobra.Command) (seed.CoordinatorChanges, bool) {
	var ch seed.CoordinatorChanges
	changed := false
	set := func(name string, dst **string) {
		if !cmd.Flags().Changed(name) {
			return
		}
		v, _ := cmd.Flags().GetString(name)
		*dst = &v
		changed = true
	}
	set("name", &ch.FullName)
	set("district", &ch.District)
	set("state", &ch.State)
	set("designation", &ch.Designation)
	set("office-address", &ch.OfficeAddress)
	set("password", &ch.Password)
	return ch, changed
}

func newCoordinatorUpdateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update fields of the existing coordinator",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, ok := changes(cmd)
			if !ok {
				return errNothingToUpdate
			}
			return c.withSeeder(cmd, func(ctx context.Context, s *seed.Seeder) error {
				u, _, err := s.UpdateCoordinator(ctx, c.v.GetString("mobile"), ch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated district coordinator %s (%s)\n", u.Mobile, u.ID.Hex())
				return nil
			})
		},
	}
	addProfileFlags(cmd)
	return cmd
}

func newCoordinatorShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the coordinator as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSeeder(cmd, func(ctx context.Context, s *seed.Seeder) error {
				u, dc, err := s.Show(ctx, c.v.GetString("mobile"))
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"user": u, "coordinator": dc})
			})
		},
	}
}

func newCoordinatorDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the coordinator and its profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSeeder(cmd, func(ctx context.Context, s *seed.Seeder) error {
				deleted, err := s.DeleteCoordinator(ctx, c.v.GetString("mobile"))
				if err != nil {
					return err
				}
				if !deleted {
					fmt.Fprintln(cmd.OutOrStdout(), "no account found; nothing deleted")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted district coordinator")
				return nil
			})
		},
	}
}
