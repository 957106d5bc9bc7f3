package reader

import (
	"bufio"
	"context"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lectern/content"
	"lectern/layout"
	"lectern/session"
	"lectern/state"
)

// Render wraps a chapter at the requested terminal geometry and writes
// the paginated result as plain text.
func Render(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errNoSource
	}
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, extra arguments ignored", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	s, closeAll, err := openSession(ctx, src, env)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeAll()) }()

	pane := session.Pane{Width: cmd.Int("width"), Height: cmd.Int("height")}
	s.Resize(pane)
	if cmd.IsSet("chapter") {
		if err := s.GoToChapter(ctx, cmd.Int("chapter")-1); err != nil {
			return err
		}
	}
	chapter := s.Position().Chapter

	if cmd.Bool("blocks") {
		blocks, err := s.Blocks(ctx, chapter)
		if err != nil {
			return err
		}
		_, err = os.Stdout.WriteString(content.DumpBlocks(blocks))
		return err
	}

	lines, err := s.Lines(ctx, 0)
	if err != nil {
		return err
	}
	pages := layout.Paginate(len(lines), s.Panes()[0].Height)

	out := bufio.NewWriter(os.Stdout)
	defer func() { err = multierr.Append(err, out.Flush()) }()

	ruler := strings.Repeat("─", s.Panes()[0].Width)
	for i, pg := range pages {
		if i > 0 {
			out.WriteString(ruler)
			out.WriteByte('\n')
		}
		for _, ln := range lines[pg.Start:pg.End] {
			out.WriteString(ln.Text())
			out.WriteByte('\n')
		}
	}

	env.Log.Info("Rendered chapter",
		zap.String("title", s.Title(chapter)),
		zap.Int("lines", len(lines)),
		zap.Int("pages", len(pages)),
		zap.Int("width", s.Panes()[0].Width))
	return nil
}
