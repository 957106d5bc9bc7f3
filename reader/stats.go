package reader

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"

	"lectern/state"
)

// Stats prints per chapter word and sentence counts with an estimated
// reading time at the configured speed.
func Stats(ctx context.Context, cmd *cli.Command) (err error) {
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

	first, last := 0, s.ChapterCount()-1
	if cmd.IsSet("chapter") {
		first = cmd.Int("chapter") - 1
		last = first
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	defer func() { err = multierr.Append(err, w.Flush()) }()

	fmt.Fprintln(w, "#\tchapter\tblocks\twords\tsentences\ttime")

	var words, sentences int
	var total time.Duration
	for ch := first; ch <= last; ch++ {
		st, er := s.ChapterStats(ctx, ch)
		if er != nil {
			return er
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n",
			ch+1, s.Title(ch), st.Blocks, st.Words, st.Sentences, st.ReadingTime.Round(time.Second))
		words += st.Words
		sentences += st.Sentences
		total += st.ReadingTime
	}
	if first != last {
		fmt.Fprintf(w, "\ttotal\t\t%d\t%d\t%s\n", words, sentences, total.Round(time.Second))
	}
	return nil
}
