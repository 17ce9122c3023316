// btfdump is a CLI tool for inspecting BPF Type Format (BTF) blobs.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gobtf/gobtf/internal/bufreader"
	"github.com/gobtf/gobtf/pkg/btf"
	"github.com/gobtf/gobtf/pkg/btf/btfutil"
)

var (
	prettyPrint bool
	log         = logrus.New()
)

func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetEscapeHTML(false)
	if prettyPrint {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		log.WithError(err).Fatal("failed to encode JSON output")
	}
}

func openTypeInformation(path string) *btf.TypeInformation {
	src, err := bufreader.Open(path)
	if err != nil {
		log.WithError(err).Fatal("failed to open BTF file")
	}
	defer src.Close()

	ti, err := btf.FromSource(src)
	if err != nil {
		log.WithError(err).Fatal("failed to decode BTF blob")
	}

	log.WithField("type_count", len(ti.IDs())).Info("decoded BTF type section")
	return ti
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "btfdump",
		Short: "Inspect BPF Type Format (BTF) blobs",
	}
	root.PersistentFlags().BoolVar(&prettyPrint, "pretty", false, "pretty-print JSON output")

	root.AddCommand(newDumpCmd(), newSizeCmd(), newOffsetCmd())
	return root
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <btf-file>",
		Short: "Dump every type in the file as JSON",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ti := openTypeInformation(args[0])
			outputJSON(btfutil.Dump(ti))
		},
	}
}

func newSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size <btf-file> <type-name-or-id>",
		Short: "Print the byte size of a type",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			ti := openTypeInformation(args[0])
			tid, err := resolveTypeArg(ti, args[1])
			if err != nil {
				log.WithError(err).Fatal("failed to resolve type")
			}

			size, err := ti.SizeOf(tid)
			if err != nil {
				log.WithError(err).Fatal("size_of failed")
			}
			outputJSON(map[string]uint32{"size": size})
		},
	}
}

func newOffsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offset <btf-file> <type-name-or-id> <member-path>",
		Short: "Print the offset of a member path within a type",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			ti := openTypeInformation(args[0])
			tid, err := resolveTypeArg(ti, args[1])
			if err != nil {
				log.WithError(err).Fatal("failed to resolve type")
			}

			memberTID, offset, err := ti.OffsetOf(tid, args[2])
			if err != nil {
				log.WithError(err).Fatal("offset_of failed")
			}

			outputJSON(map[string]interface{}{
				"member_type_id": memberTID,
				"offset":         btfutil.FormatOffset(offset),
			})
		},
	}
}

func resolveTypeArg(ti *btf.TypeInformation, arg string) (uint32, error) {
	if tid, ok := ti.IDOf(arg); ok {
		return tid, nil
	}

	var tid uint32
	if _, err := fmt.Sscanf(arg, "%d", &tid); err == nil {
		if _, ok := ti.FromID(tid); ok {
			return tid, nil
		}
	}

	return 0, btf.NewError(btf.ErrInvalidTypeID, fmt.Sprintf("no type named or numbered %q", arg))
}

func main() {
	log.SetFormatter(&logrus.TextFormatter{})
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
