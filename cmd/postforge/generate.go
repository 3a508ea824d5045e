package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/postforge/postforge/pkg/postkit/pipeline"
	"github.com/postforge/postforge/pkg/postkit/render"
)

var (
	contextURL    string
	exemplarFiles []string
	instructions  string
	asHTML        bool
	outFile       string
	timeout       time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a post from exemplars and a context URL",
	Long: `Generate a social post that imitates the style of the given exemplar
posts, grounded by the fetched content of --url. Exemplars come from
--exemplar files or from stdin when input is piped in.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&contextURL, "url", "", "URL of the document used as grounding context (required)")
	generateCmd.Flags().StringArrayVarP(&exemplarFiles, "exemplar", "e", nil, "file containing one exemplar post (repeatable)")
	generateCmd.Flags().StringVarP(&instructions, "instructions", "i", "", "additional free-form instructions")
	generateCmd.Flags().BoolVar(&asHTML, "html", false, "render the generated post as HTML")
	generateCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the post to a file instead of stdout")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the run")
	generateCmd.MarkFlagRequired("url")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	exemplars, err := collectExemplars()
	if err != nil {
		return err
	}

	settings := pipeline.Settings{
		SystemPrompt:   viper.GetString("system_prompt"),
		PromptTemplate: viper.GetString("prompt_template"),
		ModelProvider:  viper.GetString("model_provider"),
		ModelName:      viper.GetString("model_name"),
	}

	p, err := pipeline.New(settings)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Using provider %s (model %s)\n",
			p.Provider().Name(), p.Provider().Model())
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := p.Run(ctx, pipeline.Request{
		ExemplarPosts:          exemplars,
		ContextURL:             contextURL,
		AdditionalInstructions: instructions,
	})
	if err != nil {
		return err
	}

	output := result.Post
	if asHTML {
		output, err = render.HTML(result.Post)
		if err != nil {
			return err
		}
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(output), 0o644); err != nil {
			return pkgerrors.Wrapf(err, "error writing %s", outFile)
		}
		return nil
	}

	fmt.Println(output)
	return nil
}

// collectExemplars gathers exemplar posts from --exemplar files, falling
// back to piped stdin when no files were given.
func collectExemplars() ([]string, error) {
	var exemplars []string

	for _, path := range exemplarFiles {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "error reading exemplar %s", path)
		}
		exemplars = append(exemplars, strings.TrimSpace(string(content)))
	}

	if len(exemplars) == 0 && !term.IsTerminal(int(os.Stdin.Fd())) {
		piped, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "error reading stdin")
		}
		if text := strings.TrimSpace(string(piped)); text != "" {
			exemplars = append(exemplars, text)
		}
	}

	if len(exemplars) == 0 {
		return nil, fmt.Errorf("no exemplar posts: pass --exemplar or pipe one on stdin")
	}

	return exemplars, nil
}
