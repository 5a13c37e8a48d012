package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/rediskit"
)

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <shape> <key>",
		Short: "Print the value at key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.client.UseTag(args[0])
			if err != nil {
				return err
			}
			v, err := cs.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if members, ok := v.([]any); ok && cs.Shape() == rediskit.ShapeSet {
				v = sortedStrings(members)
			}
			return printJSON(cmd, v)
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	var exp rediskit.Expiry
	cmd := &cobra.Command{
		Use:   "set <shape> <key> <value...>",
		Short: "Write a value; hash values are field=value pairs",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shape, err := rediskit.ParseShape(args[0])
			if err != nil {
				return err
			}
			v, err := parseValue(shape, args[2:])
			if err != nil {
				return err
			}
			ok, err := a.client.Use(shape).Set(cmd.Context(), args[1], v, exp)
			if err != nil {
				return err
			}
			return printJSON(cmd, ok)
		},
	}
	expiryFlags(cmd, &exp)
	return cmd
}

func (a *app) delCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del <key>",
		Short: "Delete a key of any shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.client.Strings().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, ok)
		},
	}
}

func (a *app) existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <key>",
		Short: "Report whether key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.client.Strings().Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, ok)
		},
	}
}

func (a *app) typeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "type <key>",
		Short: "Print the stored shape of key (\"none\" when absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := a.client.Strings().KeyShape(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, tag)
		},
	}
}

func (a *app) expireCmd() *cobra.Command {
	var exp rediskit.Expiry
	cmd := &cobra.Command{
		Use:   "expire <key>",
		Short: "Set a TTL on key with --ex or --px",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if exp == rediskit.NoExpiry {
				return fmt.Errorf("one of --ex or --px is required")
			}
			ok, err := a.client.Strings().SetExpiry(cmd.Context(), args[0], exp)
			if err != nil {
				return err
			}
			return printJSON(cmd, ok)
		},
	}
	expiryFlags(cmd, &exp)
	return cmd
}

func (a *app) lenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "len <shape> <key>",
		Short: "Print the length of the value at key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.client.UseTag(args[0])
			if err != nil {
				return err
			}
			n, err := cs.GetLength(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, n)
		},
	}
}

// Both flags may be given; the command set then reports the conflict.
func expiryFlags(cmd *cobra.Command, exp *rediskit.Expiry) {
	cmd.Flags().Int64Var(&exp.Seconds, "ex", 0, "Expiry in seconds")
	cmd.Flags().Int64Var(&exp.Milliseconds, "px", 0, "Expiry in milliseconds")
}

// parseValue turns positional args into the Go value a shape expects.
func parseValue(shape rediskit.Shape, args []string) (any, error) {
	switch shape {
	case rediskit.ShapeString:
		if len(args) != 1 {
			return nil, fmt.Errorf("string takes exactly one value, got %d", len(args))
		}
		return args[0], nil
	case rediskit.ShapeList:
		return args, nil
	case rediskit.ShapeSet:
		m := make(map[string]struct{}, len(args))
		for _, a := range args {
			m[a] = struct{}{}
		}
		return m, nil
	case rediskit.ShapeHash:
		m := make(map[string]string, len(args))
		for _, a := range args {
			field, value, ok := strings.Cut(a, "=")
			if !ok || field == "" {
				return nil, fmt.Errorf("hash value %q: want field=value", a)
			}
			m[field] = value
		}
		return m, nil
	}
	return nil, rediskit.ErrUnknownShape
}
