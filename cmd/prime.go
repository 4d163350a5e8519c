package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-forecast/internal/prime"
)

func primeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prime <n>",
		Short: "Report whether an integer is prime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%q is not an integer", args[0])
			}

			fmt.Fprintln(cmd.OutOrStdout(), prime.IsPrime(n))
			return nil
		},
	}
}
