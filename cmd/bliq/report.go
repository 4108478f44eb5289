package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	bliq "github.com/sl4v3k/android-universal-bliq"
)

// checkErr reports a failure from the image library and exits.
func checkErr(err error) {
	if err != nil {
		fmt.Printf(" ! Error %s!\n", err.Error())
		os.Exit(2)
	}
}

func inspectImage(inputPath, extractDir string, decompress, quiet bool) {
	fmt.Println(" - Reading image")
	img, err := bliq.Open(inputPath)
	checkErr(err)
	defer img.Close()

	if !quiet {
		printReport(img)
	}

	if extractDir != "" {
		extractSegments(img.Layout, extractDir, decompress)
		fmt.Printf(" - Finished! Output is in '%s'.\n", extractDir)
	}
}

func printReport(img *bliq.File) {
	hdr := img.Header()

	fmt.Println()
	if name := hdr.BoardName(); name != "" {
		fmt.Printf("Board:   %s\n", name)
	}
	if cmdline := hdr.FullCommandLine(); cmdline != "" {
		fmt.Printf("Cmdline: %s\n", cmdline)
	}
	if hdr.OSVersion != 0 {
		a, b, c := hdr.OSRelease()
		year, month := hdr.OSPatchLevel()
		fmt.Printf("OS:      %d.%d.%d (security patch %d-%02d)\n", a, b, c, year, month)
	}
	if ver, ok := hdr.HeaderVersion(); ok {
		fmt.Printf("Header:  v%d\n", ver)
	}
	fmt.Printf("Pages:   %d bytes\n", hdr.PageSize)
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Segment", "Offset", "Size", "Pages", "Notes"})

	row := func(name string, offset, size uint64, pages, notes string) {
		table.Append([]string{
			name,
			fmt.Sprintf("0x%x", offset),
			sizeCell(size),
			pages,
			notes,
		})
	}

	pagesCell := func(n uint32) string {
		return strconv.FormatUint(uint64(n), 10)
	}

	row("kernel", img.KernelOffset(), uint64(hdr.KernelSize), pagesCell(img.KernelPages()), segNotes(img.Kernel()))
	row("ramdisk", img.RamdiskOffset(), uint64(hdr.RamdiskSize), pagesCell(img.RamdiskPages()), segNotes(img.Ramdisk()))
	row("second", img.SecondOffset(), uint64(hdr.SecondSize), pagesCell(img.SecondPages()), segNotes(img.Second()))
	row("extra", img.ExtraOffset(), img.ExtraLength(), "-", img.ExtraKind().String())

	table.Render()

	fileLen := img.ExtraOffset() + img.ExtraLength()

	fmt.Println()
	fmt.Printf("File length: %s (%d bytes)\n", humanize.Bytes(fileLen), fileLen)
	fmt.Printf("True length: %s (%d bytes)\n", humanize.Bytes(img.TotalLength()), img.TotalLength())
	fmt.Printf("Fingerprint: %016x\n", img.Fingerprint())
}

func sizeCell(n uint64) string {
	return fmt.Sprintf("%s (%d)", humanize.Bytes(n), n)
}

func segNotes(data []byte) string {
	if len(data) == 0 {
		return "absent"
	}

	return bliq.DetectCompression(data).String()
}

func extractSegments(layout *bliq.Layout, dir string, decompress bool) {
	err := os.MkdirAll(dir, 0755)
	checkMsg(err, "creating output directory")

	fmt.Println(" - Extracting segments")

	writeBlob := func(name string, data []byte) {
		if len(data) == 0 {
			return
		}

		path := filepath.Join(dir, name)
		err := os.WriteFile(path, data, 0644)
		checkMsg(err, "writing "+name)

		fmt.Printf(" - Wrote %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	}

	writeBlob("kernel"+bliq.DetectCompression(layout.Kernel()).Ext(), layout.Kernel())

	ramdisk := layout.Ramdisk()
	name := "ramdisk" + bliq.DetectCompression(ramdisk).Ext()
	if decompress && len(ramdisk) > 0 {
		fmt.Println(" - Decompressing ramdisk")
		inflated, err := bliq.DecompressRamdisk(ramdisk)
		checkErr(err)

		ramdisk = inflated
		name = "ramdisk"
	}
	writeBlob(name, ramdisk)

	writeBlob("second", layout.Second())

	switch layout.ExtraKind() {
	case bliq.TrailerDTB, bliq.TrailerQCDT:
		writeBlob("dtb", layout.Extra())
	case bliq.TrailerEmpty, bliq.TrailerPadding:
		// Nothing worth keeping.
	default:
		writeBlob("extra", layout.Extra())
	}
}
