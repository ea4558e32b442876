package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aerissecure/docmerge/pathcache"
)

func (a *app) newPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show the paths remembered from the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := pathcache.New(a.stateDir())
			if a.v.GetBool("clear") {
				return cache.Clear()
			}
			paths, err := cache.Load()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(paths))
			for k := range paths {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", k, paths[k])
			}
			return nil
		},
	}
	cmd.Flags().Bool("clear", false, "forget all remembered paths")
	return cmd
}
