package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/xnat-tools/xnatc/internal/access"
)

func newSendValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-validate <access-file>",
		Short: "Check a send access descriptor without contacting the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], access.Send)
		},
	}
}

func newReceiveValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receive-validate <access-file>",
		Short: "Check a receive access descriptor without contacting the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], access.Receive)
		},
	}
}

func runValidate(path string, dir access.Direction) error {
	acc, err := access.Load(path)
	if err != nil {
		return err
	}

	if err := access.Validate(acc, dir); err != nil {
		return err
	}

	if flagJSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]bool{"valid": true})
	}

	statusf("Access descriptor is valid for %s.\n", dir)

	return nil
}
