package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	bliq "github.com/sl4v3k/android-universal-bliq"
	flag "github.com/spf13/pflag"
)

// General command-line interface constants
const (
	Version = "0.4.0"
)

func checkMsg(err error, msg string) {
	if err != nil {
		fmt.Printf(" ! Error %s!\n", msg)
		fmt.Printf(" ! %s\n", err.Error())
		os.Exit(2)
	}
}

func main() {
	var inputPath string
	var extractDir string
	var decompress bool
	var quiet bool

	flag.StringVarP(&inputPath, "input", "i", "", "Path to the boot image to inspect.")
	flag.StringVarP(&extractDir, "extract", "x", "", "Directory to extract the segments into.")
	flag.BoolVarP(&decompress, "decompress", "d", false, "Decompress the ramdisk when extracting.")
	flag.BoolVarP(&quiet, "quiet", "q", false, "Skip the layout report.")

	fmt.Printf(`bliq %s by @sl4v3k
Android boot image inspector

`, Version)

	flag.ErrHelp = errors.New("")
	flag.Parse()

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	interactivePath := false

	if inputPath == "" {
		if flag.NArg() > 0 {
			inputPath = flag.Arg(0)
		} else {
			fmt.Println("Usage: bliq {-x dir} [input]")
			flag.PrintDefaults()
			if !interactive {
				os.Exit(2)
			}

			defer func() {
				fmt.Print("\n\nPress any key to continue...")
				reader := bufio.NewReader(os.Stdin)
				reader.ReadRune()
			}()

			inputPath = cliGetInputPath()
			interactivePath = true
		}
	}

	if !interactivePath {
		fInfo, err := os.Stat(inputPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Printf(" ! Input file '%s' does not exist!\n", inputPath)
				fmt.Println(" ! Please provide a boot image and try again.")
			} else {
				checkMsg(err, "verifying file")
			}

			os.Exit(2)
		}

		if fInfo.IsDir() {
			fmt.Println(" ! Input is a directory!")
			fmt.Println(" ! Please provide a boot image file.")
			os.Exit(2)
		} else if fInfo.Size() < bliq.HeaderSize {
			fmt.Println(" ! Input is too small!")
			fmt.Printf(" ! Are you sure '%s' is a valid boot image?\n", fInfo.Name())
			os.Exit(2)
		}
	}

	inspectImage(inputPath, extractDir, decompress, quiet)
}
