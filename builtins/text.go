package builtins

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/flagspec"
	"github.com/komashell/koma/interp"
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/vfs"
)

var catSpec = &flagspec.Spec{
	Name:        "cat",
	Description: "print file contents, or stdin if no file is given",
	Positional:  "[file ...]",
	Examples:    []string{"cat /etc/motd", "ls | cat"},
}

func cmdCat(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(catSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("cat: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(catSpec))
		return interp.ExitOK
	}
	if len(res.Positional) == 0 {
		if ctx.HasStdin() {
			for _, line := range ctx.GetStdinLines() {
				ctx.Writeln(line)
			}
		}
		return interp.ExitOK
	}
	code := interp.ExitOK
	for _, p := range res.Positional {
		content, err := fs.ReadFile(resolve(sh, p))
		if err != nil {
			ctx.Error(fmt.Sprintf("cat: %v\n", err))
			code = interp.ExitFailure
			continue
		}
		ctx.Write(content)
	}
	return code
}

var echoSpec = &flagspec.Spec{
	Name:        "echo",
	Description: "print arguments separated by spaces",
	Flags: []flagspec.Flag{
		{Name: "no-newline", Short: 'n', Description: "suppress the trailing newline"},
	},
	Positional: "[word ...]",
	Examples:   []string{"echo hello world", "echo -n no newline"},
}

func cmdEcho(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(echoSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("echo: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(echoSpec))
		return interp.ExitOK
	}
	text := strings.Join(res.Positional, " ")
	if res.Bool("no-newline") {
		ctx.Write(text)
	} else {
		ctx.Writeln(text)
	}
	return interp.ExitOK
}

func readLinesFor(res flagspec.Result, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context, cmdName string) ([]string, error) {
	if len(res.Positional) == 0 {
		return ctx.GetStdinLines(), nil
	}
	var lines []string
	for _, p := range res.Positional {
		content, err := fs.ReadFile(resolve(sh, p))
		if err != nil {
			return nil, err
		}
		lines = append(lines, strings.Split(content, "\n")...)
	}
	return lines, nil
}

var grepSpec = &flagspec.Spec{
	Name:        "grep",
	Description: "print lines matching a pattern",
	Flags: []flagspec.Flag{
		{Name: "line-number", Short: 'n', Description: "prefix matches with their 1-based line number"},
		{Name: "ignore-case", Short: 'i', Description: "match case-insensitively"},
		{Name: "invert-match", Short: 'v', Description: "print non-matching lines instead"},
		{Name: "count", Short: 'c', Description: "print only a count of matching lines"},
	},
	Positional: "<pattern> [file ...]",
	Examples:   []string{"grep error /var/log/sys", "cat f | grep -i warn"},
}

func cmdGrep(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(grepSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("grep: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(grepSpec))
		return interp.ExitOK
	}
	if len(res.Positional) == 0 {
		ctx.Error("grep: missing pattern\n")
		return interp.ExitFailure
	}
	pattern := res.Positional[0]
	fileArgs := flagspec.Result{Positional: res.Positional[1:]}
	lines, err := readLinesFor(fileArgs, sh, fs, ctx, "grep")
	if err != nil {
		ctx.Error(fmt.Sprintf("grep: %v\n", err))
		return interp.ExitFailure
	}

	expr := pattern
	if res.Bool("ignore-case") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		ctx.Error(fmt.Sprintf("grep: %v\n", err))
		return interp.ExitFailure
	}
	invert := res.Bool("invert-match")
	count := 0
	matched := false
	for i, line := range lines {
		isMatch := re.MatchString(line)
		if invert {
			isMatch = !isMatch
		}
		if !isMatch {
			continue
		}
		matched = true
		count++
		if res.Bool("count") {
			continue
		}
		if res.Bool("line-number") {
			ctx.Writeln(fmt.Sprintf("%d:%s", i+1, line))
		} else {
			ctx.Writeln(line)
		}
	}
	if res.Bool("count") {
		ctx.Writeln(strconv.Itoa(count))
	}
	if !matched {
		return interp.ExitFailure
	}
	return interp.ExitOK
}

var sortSpec = &flagspec.Spec{
	Name:        "sort",
	Description: "sort lines of input",
	Flags: []flagspec.Flag{
		{Name: "reverse", Short: 'r', Description: "reverse the sort order"},
		{Name: "numeric", Short: 'n', Description: "sort by numeric value rather than lexically"},
	},
	Positional: "[file ...]",
	Examples:   []string{"sort names.txt", "ls | sort -r"},
}

func cmdSort(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(sortSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("sort: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(sortSpec))
		return interp.ExitOK
	}
	lines, err := readLinesFor(res, sh, fs, ctx, "sort")
	if err != nil {
		ctx.Error(fmt.Sprintf("sort: %v\n", err))
		return interp.ExitFailure
	}
	sorted := append([]string(nil), lines...)
	numeric := res.Bool("numeric")
	sortLines(sorted, numeric)
	if res.Bool("reverse") {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}
	for _, line := range sorted {
		ctx.Writeln(line)
	}
	return interp.ExitOK
}

func sortLines(lines []string, numeric bool) {
	less := func(i, j int) bool { return lines[i] < lines[j] }
	if numeric {
		less = func(i, j int) bool {
			a, errA := strconv.ParseFloat(strings.TrimSpace(lines[i]), 64)
			b, errB := strconv.ParseFloat(strings.TrimSpace(lines[j]), 64)
			if errA != nil || errB != nil {
				return lines[i] < lines[j]
			}
			return a < b
		}
	}
	insertionSort(lines, less)
}

func insertionSort(lines []string, less func(i, j int) bool) {
	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			lines[j], lines[j-1] = lines[j-1], lines[j]
		}
	}
}

var uniqSpec = &flagspec.Spec{
	Name:        "uniq",
	Description: "collapse adjacent duplicate lines",
	Flags: []flagspec.Flag{
		{Name: "count", Short: 'c', Description: "prefix each line with its occurrence count"},
	},
	Positional: "[file ...]",
	Notes:      []string{"Only adjacent duplicates are collapsed; sort first if that is not guaranteed."},
	Examples:   []string{"sort f | uniq", "sort f | uniq -c"},
}

func cmdUniq(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(uniqSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("uniq: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(uniqSpec))
		return interp.ExitOK
	}
	lines, err := readLinesFor(res, sh, fs, ctx, "uniq")
	if err != nil {
		ctx.Error(fmt.Sprintf("uniq: %v\n", err))
		return interp.ExitFailure
	}
	withCount := res.Bool("count")
	var prev string
	have := false
	count := 0
	flush := func() {
		if !have {
			return
		}
		if withCount {
			ctx.Writeln(fmt.Sprintf("%4d %s", count, prev))
		} else {
			ctx.Writeln(prev)
		}
	}
	for _, line := range lines {
		if have && line == prev {
			count++
			continue
		}
		flush()
		prev, have, count = line, true, 1
	}
	flush()
	return interp.ExitOK
}

var wcSpec = &flagspec.Spec{
	Name:        "wc",
	Description: "count lines, words, and bytes",
	Flags: []flagspec.Flag{
		{Name: "lines", Short: 'l', Description: "print only the line count"},
		{Name: "words", Short: 'w', Description: "print only the word count"},
		{Name: "bytes", Short: 'c', Description: "print only the byte count"},
	},
	Positional: "[file ...]",
	Examples:   []string{"wc f", "wc -l f"},
}

func cmdWc(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(wcSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("wc: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(wcSpec))
		return interp.ExitOK
	}
	var content string
	if len(res.Positional) == 0 {
		content = strings.Join(ctx.GetStdinLines(), "\n")
	} else {
		var parts []string
		for _, p := range res.Positional {
			c, err := fs.ReadFile(resolve(sh, p))
			if err != nil {
				ctx.Error(fmt.Sprintf("wc: %v\n", err))
				return interp.ExitFailure
			}
			parts = append(parts, c)
		}
		content = strings.Join(parts, "\n")
	}
	lines := strings.Count(content, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		lines++
	}
	words := len(strings.Fields(content))
	bytes := len(content)

	switch {
	case res.Bool("lines"):
		ctx.Writeln(strconv.Itoa(lines))
	case res.Bool("words"):
		ctx.Writeln(strconv.Itoa(words))
	case res.Bool("bytes"):
		ctx.Writeln(strconv.Itoa(bytes))
	default:
		ctx.Writeln(fmt.Sprintf("%7d %7d %7d", lines, words, bytes))
	}
	return interp.ExitOK
}

var teeSpec = &flagspec.Spec{
	Name:        "tee",
	Description: "copy stdin to stdout and to a file",
	Flags: []flagspec.Flag{
		{Name: "append", Short: 'a', Description: "append to the file rather than overwriting it"},
	},
	Positional: "<file>",
	Examples:   []string{"echo hi | tee /tmp/log"},
}

func cmdTee(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(teeSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("tee: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(teeSpec))
		return interp.ExitOK
	}
	if len(res.Positional) != 1 {
		ctx.Error("tee: missing file operand\n")
		return interp.ExitFailure
	}
	input := strings.Join(ctx.GetStdinLines(), "\n")
	ctx.Write(input)

	target := resolve(sh, res.Positional[0])
	out := input
	if res.Bool("append") {
		if existing, err := fs.ReadFile(target); err == nil {
			out = existing + "\n" + input
		}
	}
	if err := fs.WriteFile(target, out); err != nil {
		ctx.Error(fmt.Sprintf("tee: %v\n", err))
		return interp.ExitFailure
	}
	return interp.ExitOK
}

var headSpec = &flagspec.Spec{
	Name:        "head",
	Description: "print the first lines of input",
	Flags: []flagspec.Flag{
		{Name: "lines", Short: 'n', Description: "number of lines to print (default 10)", TakesValue: true},
	},
	Positional: "[file ...]",
	Examples:   []string{"head -n 3 f", "cat f | head"},
}

func cmdHead(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	return headOrTail(headSpec, "head", argv, sh, fs, ctx, true)
}

var tailSpec = &flagspec.Spec{
	Name:        "tail",
	Description: "print the last lines of input",
	Flags: []flagspec.Flag{
		{Name: "lines", Short: 'n', Description: "number of lines to print (default 10)", TakesValue: true},
	},
	Positional: "[file ...]",
	Examples:   []string{"tail -n 3 f", "cat f | tail"},
}

func cmdTail(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	return headOrTail(tailSpec, "tail", argv, sh, fs, ctx, false)
}

func headOrTail(spec *flagspec.Spec, name string, argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context, fromStart bool) int {
	res, err := flagspec.Parse(spec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("%s: %v\n", name, err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(spec))
		return interp.ExitOK
	}
	lines, err := readLinesFor(res, sh, fs, ctx, name)
	if err != nil {
		ctx.Error(fmt.Sprintf("%s: %v\n", name, err))
		return interp.ExitFailure
	}
	n := intFlag(res, "lines", 10)
	if n < 0 {
		n = 0
	}
	var slice []string
	if fromStart {
		if n > len(lines) {
			n = len(lines)
		}
		slice = lines[:n]
	} else {
		start := len(lines) - n
		if start < 0 {
			start = 0
		}
		slice = lines[start:]
	}
	for _, line := range slice {
		ctx.Writeln(line)
	}
	return interp.ExitOK
}
