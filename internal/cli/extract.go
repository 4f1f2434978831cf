package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/booru-prompt/booru-prompt/internal/config"
	"github.com/booru-prompt/booru-prompt/internal/pageurl"
	"github.com/booru-prompt/booru-prompt/internal/services"
	"github.com/booru-prompt/booru-prompt/internal/state"
	"github.com/booru-prompt/booru-prompt/internal/tags"
)

// exportFlags are the formatting flags shared by extract and export.
type exportFlags struct {
	format        string
	noArtist      bool
	includeArtist bool
}

func (f *exportFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Tag format: original or spaces (default from config)")
	cmd.Flags().BoolVar(&f.noArtist, "no-artist", false, "Leave the artist group out of the export")
	cmd.Flags().BoolVar(&f.includeArtist, "include-artist", false, "Include the artist group even if the config disables it")
	cmd.MarkFlagsMutuallyExclusive("no-artist", "include-artist")
}

// options merges the flags over the config defaults.
func (f *exportFlags) options(cfg *config.Config) (services.Options, error) {
	name := cfg.Format
	if f.format != "" {
		name = f.format
	}
	mode, err := tags.ParseMode(name)
	if err != nil {
		return services.Options{}, err
	}

	include := cfg.IncludeArtist
	if f.noArtist {
		include = false
	}
	if f.includeArtist {
		include = true
	}
	return services.Options{IncludeArtist: include, Mode: mode}, nil
}

// extractTarget fetches the post named by args, or the one on the clipboard.
func extractTarget(ctx context.Context, svc *services.TagService, args []string) (state.Snapshot, error) {
	if len(args) == 0 {
		snap, err := svc.ExtractCurrent(ctx)
		if errors.Is(err, services.ErrNoContext) {
			return snap, fmt.Errorf("no post ID given and no Danbooru post URL on the clipboard: %w", err)
		}
		return snap, err
	}

	id := args[0]
	if parsed, ok := pageurl.Identifier(id); ok {
		id = parsed
	}
	return svc.Extract(ctx, id)
}

// extractOutput is the --json document.
type extractOutput struct {
	PostID        string             `json:"post_id"`
	Format        string             `json:"format"`
	IncludeArtist bool               `json:"include_artist"`
	Groups        services.GroupView `json:"groups"`
	Export        string             `json:"export"`
	Copied        bool               `json:"copied,omitempty"`
	SavedTo       string             `json:"saved_to,omitempty"`
}

// newExtractCmd creates the 'extract' command.
func newExtractCmd() *cobra.Command {
	var (
		flags      exportFlags
		copyOut    bool
		save       bool
		outputDir  string
		jsonOutput bool
		showGroups bool
	)

	cmd := &cobra.Command{
		Use:   "extract [post-id | post-url]",
		Short: "Fetch a post and show its tags",
		Long: `Fetch a Danbooru post and show its tag groups and the combined export.

With no argument, the post URL currently on the clipboard is used.

Formats:
  original  tags exactly as Danbooru stores them (long_hair, hat_(object))
  spaces    underscores become spaces and parentheses are escaped
            (long hair, hat \(object\))

Examples:
  booru-prompt extract 12345
  booru-prompt extract https://danbooru.donmai.us/posts/12345 --format spaces --copy
  booru-prompt extract 12345 --save --outdir ./prompts
  booru-prompt extract 12345 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}

			svc, err := newTagService(cmd, cfg, outputDir)
			if err != nil {
				return err
			}

			snap, err := extractTarget(GetContext(), svc, args)
			if err != nil {
				return err
			}

			export, err := svc.Export(opts)
			if err != nil {
				return err
			}
			out := extractOutput{
				PostID:        snap.PostID,
				Format:        opts.Mode.String(),
				IncludeArtist: opts.IncludeArtist,
				Export:        export,
			}
			groups, hasGroups := svc.Display(opts.Mode)
			out.Groups = groups

			if copyOut {
				if _, err := svc.Copy(opts); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				out.Copied = true
			}
			if save {
				path, err := svc.Save(opts)
				if err != nil {
					return fmt.Errorf("failed to save export: %w", err)
				}
				out.SavedTo = path
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			writeExtract(cmd.OutOrStdout(), out, showGroups && hasGroups)
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the export to the clipboard")
	cmd.Flags().BoolVar(&save, "save", false, "Save the export to danbooru_tags_<id>.txt")
	cmd.Flags().StringVarP(&outputDir, "outdir", "o", "", "Directory for --save (default from config, then ~/Downloads)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&showGroups, "groups", true, "Show each tag group before the export")

	return cmd
}

// newExportCmd creates the 'export' command.
func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export [post-id | post-url]",
		Short: "Print only the export string",
		Long: `Fetch a Danbooru post and print only the combined export string,
suitable for piping into other tools.

With no argument, the post URL currently on the clipboard is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}

			svc, err := newTagService(cmd, cfg, "")
			if err != nil {
				return err
			}
			if _, err := extractTarget(GetContext(), svc, args); err != nil {
				return err
			}

			export, err := svc.Export(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), export)
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeExtract(w io.Writer, out extractOutput, showGroups bool) {
	if showGroups {
		fmt.Fprintf(w, "Artist:    %s\n", out.Groups.Artist)
		fmt.Fprintf(w, "Character: %s\n", out.Groups.Character)
		fmt.Fprintf(w, "Copyright: %s\n", out.Groups.Origin)
		fmt.Fprintf(w, "Tags:      %s\n", out.Groups.Tags)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Export:")
	}
	fmt.Fprintln(w, out.Export)
	if out.SavedTo != "" {
		fmt.Fprintf(w, "\nSaved to: %s\n", out.SavedTo)
	}
}
