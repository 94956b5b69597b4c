package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/liveicon/liveicon/internal/bundle"
	"github.com/liveicon/liveicon/internal/config"
)

// Install actions run after a bundle is created.
const (
	InstallActionLaunch     = "launch"
	InstallActionOpenFolder = "open-folder"
	InstallActionNone       = "none"
)

var (
	createName          string
	createGIF           string
	createCommand       string
	createResizeMethod  string
	createLocation      string
	createInstallAction string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an agent bundle from a GIF and a command",
	Long: `Create an agent bundle from an animated GIF and a shell command.

If the GIF is not square it is made square according to --resize-method:
center-crop keeps the centered square of the shorter side, center-fit puts
the image on a transparent square of the longer side.`,
	Example: `  liveicon create -n Backup -g ./spinner.gif -c 'rsync -a ~/docs /mnt/nas'`,
	Args:    cobra.NoArgs,
	RunE:    runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createName, "name", "n", "", "Name of the app, shown in the tray menu")
	createCmd.Flags().StringVarP(&createGIF, "gif", "g", "", "Path to an animated GIF used as the icon")
	createCmd.Flags().StringVarP(&createCommand, "command", "c", "", "Shell command executed when the app is activated")
	createCmd.Flags().StringVarP(&createResizeMethod, "resize-method", "m", string(bundle.CenterFit), "How a non-square GIF is made square: center-fit or center-crop")
	createCmd.Flags().StringVar(&createLocation, "install-location", "", "Directory the bundle is created in (default ~/.liveicon/apps)")
	createCmd.Flags().StringVar(&createInstallAction, "install-action", InstallActionLaunch, "What to do once created: launch, open-folder or none")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("gif")
	_ = createCmd.MarkFlagRequired("command")
}

func runCreate(cmd *cobra.Command, args []string) error {
	switch createInstallAction {
	case InstallActionLaunch, InstallActionOpenFolder, InstallActionNone:
	default:
		return fmt.Errorf("invalid install action %q (want launch, open-folder or none)", createInstallAction)
	}

	location := createLocation
	if location == "" {
		dir, err := config.GlobalAppsDir()
		if err != nil {
			return err
		}
		location = dir
	}
	location, err := filepath.Abs(location)
	if err != nil {
		return err
	}

	log, closer := config.NewLogger(config.LogOptions{Verbose: verbose})
	defer closer.Close()

	fmt.Println(styleHint.Render("Creating the bundle..."))
	dir, err := bundle.Create(cmd.Context(), bundle.CreateOptions{
		Name:         createName,
		GIFPath:      createGIF,
		Command:      createCommand,
		ResizeMethod: bundle.ResizeMethod(createResizeMethod),
		Location:     location,
	}, log)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", styleSuccess.Render("Created"), styleValue.Render(dir))

	switch createInstallAction {
	case InstallActionLaunch:
		if err := launchAgent(dir); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", styleSuccess.Render("Launched"), styleValue.Render(createName))
	case InstallActionOpenFolder:
		if err := openFolder(location); err != nil {
			return fmt.Errorf("failed to open %s: %w", location, err)
		}
	}

	if createInstallAction != InstallActionLaunch {
		exe, _ := os.Executable()
		fmt.Println(styleHint.Render(fmt.Sprintf("Start it with: %s run --bundle %q", filepath.Base(exe), dir)))
	}
	return nil
}
