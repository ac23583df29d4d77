package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kymanzi/ofisi/core"
	"github.com/kymanzi/ofisi/core/member"
	"github.com/kymanzi/ofisi/storage/database/sqlxrepos"
)

func newAddMemberCmd() *cobra.Command {
	var name, email, color string

	cmd := &cobra.Command{
		Use:   "addmember",
		Short: "Add a member to the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := member.NewService(sqlxrepos.NewMemberRepository(db))
			validate, _ := core.NewValidator()

			nm := member.NewMember{Name: name, Email: email, Color: color}
			if err := nm.Validate(validate, svc); err != nil {
				return err
			}
			mbr, err := svc.Create(context.Background(), nm)
			if err != nil {
				return err
			}
			logger.Printf("member %s (%s) created", mbr.Name, mbr.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&color, "color", "", "avatar color")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
