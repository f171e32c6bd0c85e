package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/slaide/seaconfig/internal/model"
	"github.com/slaide/seaconfig/internal/platemap"
	"github.com/slaide/seaconfig/internal/store"
)

var (
	storeListProject string
	storeListPlate   string
	storeListSince   string
	storeListMachine []string
	storeListLimit   int

	storeGetOut  string
	storeGetYAML bool
)

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Keep configs in the local store",
	}
	cmd.AddCommand(newStoreSaveCmd())
	cmd.AddCommand(newStoreListCmd())
	cmd.AddCommand(newStoreGetCmd())
	cmd.AddCommand(newStoreDeleteCmd())
	return cmd
}

func newStoreSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>...",
		Short: "Save config documents, upgrading them to the current schema",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStoreSaveCmd,
	}
}

func runStoreSaveCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	for _, path := range args {
		res, err := readConfigFile(path)
		if err != nil {
			return err
		}
		if _, err := checkPlate(res.Config); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		id, err := st.Save(ctxOf(cmd), res.Config.Upgrade())
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		if err := writeLines(cmd, []string{fmt.Sprintf("%s\t%s", id, path)}); err != nil {
			return err
		}
	}
	return nil
}

func newStoreListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored configs",
		Args:  cobra.NoArgs,
		RunE:  runStoreListCmd,
	}
	cmd.Flags().StringVar(&storeListProject, "project", "", "project filter")
	cmd.Flags().StringVar(&storeListPlate, "plate", "", "wellplate id filter")
	cmd.Flags().StringVar(&storeListSince, "since", "", "saved on or after date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&storeListMachine, "machine", nil, "machine setting filter as handle=value, repeatable")
	cmd.Flags().IntVar(&storeListLimit, "limit", 0, "limit to the N newest configs")
	return cmd
}

func runStoreListCmd(cmd *cobra.Command, _ []string) error {
	filter := model.ListFilter{
		Project: storeListProject,
		Plate:   storeListPlate,
		Limit:   storeListLimit,
	}
	if storeListSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", storeListSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if len(storeListMachine) > 0 {
		filter.Machine = make(map[string]string, len(storeListMachine))
		for _, m := range storeListMachine {
			handle, value, ok := strings.Cut(m, "=")
			if !ok || strings.TrimSpace(handle) == "" {
				return fmt.Errorf("invalid --machine %q, want handle=value", m)
			}
			filter.Machine[strings.TrimSpace(handle)] = strings.TrimSpace(value)
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	summaries, err := st.List(ctxOf(cmd), filter)
	if err != nil {
		return fmt.Errorf("failed to list configs: %w", err)
	}
	if len(summaries) == 0 {
		logErrln("no stored configs")
		return nil
	}
	return writeLines(cmd, platemap.SummaryTable(summaries))
}

func newStoreGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored config",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreGetCmd,
	}
	cmd.Flags().StringVar(&storeGetOut, "out", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&storeGetYAML, "yaml", false, "write YAML instead of JSON")
	return cmd
}

func runStoreGetCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	cfg, err := st.Get(ctxOf(cmd), args[0])
	if err != nil {
		return err
	}
	return writeConfig(cmd, cfg.Upgrade(), storeGetOut, storeGetYAML)
}

func newStoreDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored configs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStoreDeleteCmd,
	}
}

func runStoreDeleteCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	for _, id := range args {
		if err := st.Delete(ctxOf(cmd), id); err != nil {
			return err
		}
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(rootDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
