package app

import (
	"gopkg.in/alecthomas/kingpin.v2"
)

const version = "0.1.0"

// Options are the command line settings of one run.
type Options struct {
	ChartPath  string
	AudioPath  string
	Difficulty string
	Debug      bool
	Recover    bool
	Snapshots  bool
}

// ParseArgs reads the command line. args excludes the program name.
func ParseArgs(args []string) (Options, error) {
	cli := kingpin.New("notemap", "Terminal chart editor for four-lane rhythm games.")
	cli.Version(version)
	cli.HelpFlag.Short('h')

	chartPath := cli.Arg("chart", "Chart file to edit; created on first save").String()
	audioPath := cli.Flag("audio", "Song the chart is timed against (mp3, ogg or wav)").Short('a').ExistingFile()
	difficulty := cli.Flag("difficulty", "Difficulty to open").Short('d').Enum("easy", "normal", "hard")
	debug := cli.Flag("debug", "Log at debug level").Bool()
	recoverSnapshot := cli.Flag("recover", "Open the newest autosave snapshot instead of the file").Bool()
	snapshots := cli.Flag("snapshots", "List the autosave snapshots of the chart and exit").Bool()

	if _, err := cli.Parse(args); err != nil {
		return Options{}, err
	}
	return Options{
		ChartPath:  *chartPath,
		AudioPath:  *audioPath,
		Difficulty: *difficulty,
		Debug:      *debug,
		Recover:    *recoverSnapshot,
		Snapshots:  *snapshots,
	}, nil
}
