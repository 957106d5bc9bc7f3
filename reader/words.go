package reader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rivo/uniseg"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lectern/spritz"
	"lectern/state"
)

// Words dumps the RSVP word stream of a chapter: one token per line with
// its pause class, display duration and the pivot letter bracketed.
func Words(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errNoSource
	}

	s, closeAll, err := openSession(ctx, src, env)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeAll()) }()

	chapter := s.Position().Chapter
	if cmd.IsSet("chapter") {
		chapter = cmd.Int("chapter") - 1
	}
	tokens, err := s.Words(ctx, chapter)
	if err != nil {
		return err
	}

	if cmd.IsSet("wpm") {
		s.Player().SetWPM(cmd.Int("wpm"))
	}
	if err := s.Player().Load(tokens, 0); err != nil {
		if errors.Is(err, spritz.ErrNothingToPlay) {
			env.Log.Info("Chapter has no words", zap.String("title", s.Title(chapter)))
			return nil
		}
		return err
	}
	defer s.Player().Stop()

	out := bufio.NewWriter(os.Stdout)
	defer func() { err = multierr.Append(err, out.Flush()) }()

	for i, tok := range tokens {
		fmt.Fprintf(out, "%5d  %-8s  %5s  %s\n", i, tok.Punct, s.Player().Delay(), markPivot(tok))
		s.Player().Step(1)
	}

	env.Log.Info("Extracted words",
		zap.String("title", s.Title(chapter)),
		zap.Int("words", len(tokens)),
		zap.Int("wpm", s.Player().WPM()))
	return nil
}

// markPivot brackets the optimal recognition point of a token.
func markPivot(tok spritz.Token) string {
	pivot := tok.Pivot()

	var b strings.Builder
	g := uniseg.NewGraphemes(tok.Text)
	for i := 0; g.Next(); i++ {
		if i == pivot {
			b.WriteByte('[')
			b.WriteString(g.Str())
			b.WriteByte(']')
			continue
		}
		b.WriteString(g.Str())
	}
	return b.String()
}
