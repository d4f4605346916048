package commands

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CalcBuild/internal/ui"
)

// NewGUICommand creates the gui command.
func NewGUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop editor",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
}

func runGUI(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	repo, err := env.repository(cmd.Context())
	if err != nil {
		return err
	}

	application := app.NewWithID("com.piwi3910.calcbuild")
	th := ui.NewCalcBuildTheme(env.cfg.Theme)
	application.Settings().SetTheme(th)

	window := application.NewWindow("CalcBuild - Wall Finish Estimator")

	appUI := ui.NewApp(window, repo, env.cfg, th, env.logger)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1100, 720))
	window.CenterOnScreen()
	window.ShowAndRun()
	return nil
}
