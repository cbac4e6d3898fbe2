package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/segstat/internal/features"
	"github.com/verte-zerg/segstat/internal/generator"
	"github.com/verte-zerg/segstat/internal/model"
	"github.com/verte-zerg/segstat/internal/segment"
	"github.com/verte-zerg/segstat/internal/stats"
	"github.com/verte-zerg/segstat/internal/store"
)

const (
	defaultGenerateUsers = 1000
	defaultGenerateSeed  = 1
)

var (
	generateUsers int
	generateSeed  int64
	generateOut   string
)

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logger.Error("failed to close db", "err", err)
	}
}

func loadIndex(ctx context.Context, st *store.Store) (*features.Index, error) {
	profiles, err := st.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	res := features.Build(profiles, featureCfg)
	if res.Skipped > 0 {
		logger.Warn("skipped profiles without a user id", "count", res.Skipped)
	}
	logger.Debug("feature index built", "profiles", len(profiles), "features", res.Index.Len())
	return res.Index, nil
}

// resolveSegments returns nil when no segment was requested, selecting the
// population report.
func resolveSegments(ctx context.Context, st *store.Store, names, files []string) (*stats.SegmentInfo, error) {
	if len(names) == 0 && len(files) == 0 {
		return nil, nil
	}
	info := &stats.SegmentInfo{}
	for _, name := range names {
		seg, err := st.LoadSegment(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load segment %q: %w", name, err)
		}
		info.Segments = append(info.Segments, seg)
	}
	for _, path := range files {
		seg, err := segment.LoadFile(path, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load segment file: %w", err)
		}
		info.Segments = append(info.Segments, seg)
	}
	for _, seg := range info.Segments {
		logger.Debug("segment loaded", "name", seg.Name, "users", len(seg.Users))
	}
	return info, nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [FILE]",
		Short: "Load profiles from JSON lines (stdin when FILE is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open profiles: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logger.Error("failed to close profiles", "err", cerr)
			}
		}()
		in = f
	}
	profiles, err := readProfiles(in)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	if err := st.InsertProfiles(context.Background(), profiles); err != nil {
		return fmt.Errorf("failed to store profiles: %w", err)
	}
	logger.Info("imported profiles", "count", humanize.Comma(int64(len(profiles))), "db", dbPath)
	return nil
}

func readProfiles(r io.Reader) ([]model.Profile, error) {
	dec := json.NewDecoder(bufio.NewReader(r))
	var profiles []model.Profile
	for {
		var p model.Profile
		err := dec.Decode(&p)
		if errors.Is(err, io.EOF) {
			return profiles, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode profile %d: %w", len(profiles)+1, err)
		}
		profiles = append(profiles, p)
	}
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic profile corpus as JSON lines",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	cmd.Flags().IntVar(&generateUsers, "users", defaultGenerateUsers, "number of profiles")
	cmd.Flags().Int64Var(&generateSeed, "seed", defaultGenerateSeed, "random seed")
	cmd.Flags().StringVarP(&generateOut, "out", "o", "", "output file (default stdout)")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	if generateUsers <= 0 {
		return fmt.Errorf("--users must be > 0")
	}
	out := cmd.OutOrStdout()
	if generateOut != "" {
		f, err := os.Create(generateOut)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logger.Error("failed to close output", "err", cerr)
			}
		}()
		out = f
	}
	return writeProfiles(out, generator.New(generateSeed).Profiles(generateUsers))
}

func writeProfiles(w io.Writer, profiles []model.Profile) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, p := range profiles {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("failed to write profile: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush profiles: %w", err)
	}
	return nil
}

func newSegmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Manage named segments",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME FILE",
		Short: "Store a segment from a file with one user ID per line",
		Args:  cobra.ExactArgs(2),
		RunE:  runSegmentAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored segments",
		Args:  cobra.NoArgs,
		RunE:  runSegmentListCmd,
	})
	return cmd
}

func runSegmentAddCmd(_ *cobra.Command, args []string) error {
	seg, err := segment.LoadFile(args[1], args[0])
	if err != nil {
		return fmt.Errorf("failed to load segment file: %w", err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	if err := st.SaveSegment(context.Background(), seg); err != nil {
		return fmt.Errorf("failed to save segment: %w", err)
	}
	logger.Info("saved segment", "name", seg.Name, "users", len(seg.Users))
	return nil
}

func runSegmentListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	segs, err := st.ListSegments(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list segments: %w", err)
	}
	for _, seg := range segs {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", seg.Name, humanize.Comma(int64(seg.Users))); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
