package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"socialpost-ai/internal/adapters/output"
	"socialpost-ai/internal/config"
	"socialpost-ai/internal/domain"
	"socialpost-ai/pkg/log"
)

var defaultPlatforms = []string{"instagram", "linkedin", "facebook", "x"}

// PostGenerator runs the content pipeline for one platform.
type PostGenerator interface {
	Execute(ctx context.Context, topic, platform, tone string) (domain.Post, error)
}

// generatorFactory builds the generator lazily so that commands which do
// not generate never start a browser. The returned func releases it.
type generatorFactory func() (PostGenerator, func(), error)

func newRootCmd(cfg config.Config, build generatorFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "postgen",
		Short:         "Generate researched social media posts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCmd(build))
	root.AddCommand(newPlatformsCmd(cfg))
	return root
}

type generateOptions struct {
	title     string
	platforms []string
	tone      string
	out       string
}

func newGenerateCmd(build generatorFactory) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <topic-file>",
		Short: "Research a topic and write one post per platform",
		Long: "Reads the topic from a text file, researches it on the web and writes\n" +
			"one post per platform under <out>/<title>/. x threads are written as\n" +
			"one file per tweet.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := readTopic(args[0])
			if err != nil {
				return err
			}
			if opts.title == "" {
				opts.title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			generator, release, err := build()
			if err != nil {
				return err
			}
			defer release()

			return generateAll(cmd, generator, output.NewFileWriter(opts.out), topic, opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "output directory name (default: topic file name)")
	cmd.Flags().StringSliceVar(&opts.platforms, "platforms", defaultPlatforms, "platforms to generate for")
	cmd.Flags().StringVar(&opts.tone, "tone", domain.DefaultTone, "tone of voice")
	cmd.Flags().StringVar(&opts.out, "out", "output", "output root directory")
	return cmd
}

func readTopic(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read topic file: %w", err)
	}
	topic := strings.TrimSpace(string(data))
	if topic == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrEmptyTopic)
	}
	return topic, nil
}

// generateAll runs every platform independently. A failed platform is
// reported and the rest still run; the command fails if any platform did.
func generateAll(cmd *cobra.Command, generator PostGenerator, writer *output.FileWriter, topic string, opts generateOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var failed []string
	for _, platform := range opts.platforms {
		if err := ctx.Err(); err != nil {
			return err
		}

		post, err := generator.Execute(ctx, topic, platform, opts.tone)
		if err == nil {
			var paths []string
			paths, err = writer.Save(opts.title, post.Platform.Name, post.Final)
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
		}
		if err != nil {
			log.GlobalErrorCtx(ctx, "platform failed", "platform", platform, "error", err)
			failed = append(failed, platform)
			if errors.Is(err, output.ErrInvalidTitle) {
				return err
			}
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d platforms failed: %s", len(failed), len(opts.platforms), strings.Join(failed, ", "))
	}
	return nil
}

func newPlatformsCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the supported platforms and their limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.LoadPlatforms(cfg.PlatformsConfig)
			if err != nil {
				return err
			}
			all := store.All()
			for _, name := range store.Names() {
				p := all[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s max_length=%d hashtags=%d emoji=%t links=%t\n",
					p.Name, p.MaxLength, p.HashtagLimit, p.EmojiSupport, p.LinkSupport)
			}
			return nil
		},
	}
}
