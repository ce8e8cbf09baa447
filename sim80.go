/*
Copyright (c) 2024-2025 The sim80 authors

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retrosim/sim80/emulator"
	"github.com/retrosim/sim80/emulator/disk"
	"github.com/retrosim/sim80/platform"
	"github.com/retrosim/sim80/version"
)

var (
	root   = "."
	genDsk string

	stdio, ver bool
)

func init() {
	flag.BoolVar(&ver, "v", false, "Print version information")
	flag.BoolVar(&stdio, "stdio", false, "Use the raw stdio console instead of the glass terminal")

	flag.StringVar(&root, "root", root, "Storage root holding DISKS80, CODE80 and CONF80")
	flag.StringVar(&genDsk, "gen-dsk", "", "Create a blank disk image and exit")
}

func main() {
	flag.Parse()

	if ver {
		fmt.Printf("%s\n", version.Current.FullString())
		return
	}

	if genDsk != "" {
		if err := genImage(genDsk); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	platform.Start(stdio, root, emulator.MainLoop)
}

// genImage writes an empty image covering the full disk geometry: 77
// tracks of 26 sectors of 128 bytes.
func genImage(name string) error {
	size := (disk.MaxTrack + 1) * disk.SectorsPerTrack * disk.SectorSize

	fp, err := os.Create(name)
	if err != nil {
		return err
	}
	defer fp.Close()

	if err := fp.Truncate(int64(size)); err != nil {
		return err
	}
	fmt.Printf("created %s (%d bytes)\n", filepath.Base(name), size)
	return nil
}
