// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"specview/internal/app"
	"specview/internal/composite"
	"specview/internal/cube"
	"specview/internal/export"
	"specview/internal/interaction"
	"specview/internal/selection"
	"specview/internal/spectral"
	"specview/internal/version"
	"specview/pkg/geometry"
	speccanvas "specview/ui/canvas"
	"specview/ui/prefs"
	uispectral "specview/ui/spectral"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"specview/internal/speccache"
)

// outlineMaxEdge bounds the edge subdivision of selection outlines.
const outlineMaxEdge = 12.0

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	cfg   *app.Config
	prefs *prefs.Prefs

	canvas     *speccanvas.CubeCanvas
	compositor *composite.ThreeBandRGB
	grayView   *composite.GrayBand
	rgbMode    bool

	display  *uispectral.SpectralDisplay
	panel    *uispectral.Panel
	specWin  fyne.Window
	specOpen bool

	statusBar *widget.Label
	countLbl  *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, cfg *app.Config, pr *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Specview")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		cfg:     cfg,
		prefs:   pr,
		rgbMode: true,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeys()

	win.SetOnClosed(func() {
		size := win.Canvas().Size()
		pr.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		pr.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
		if err := pr.Save(); err != nil {
			log.Printf("prefs: %v", err)
		}
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")
	mw.countLbl = widget.NewLabel("spectra: 0")

	mw.display = uispectral.NewSpectralDisplay(mw.state.Spectra)
	mw.panel = uispectral.NewPanel(mw.state.Spectra, mw.onSaveSession)

	// The canvas is created once a cube loads; show a placeholder until then.
	placeholder := widget.NewLabel("Open a cube to begin (File > Open Cube)")

	content := container.NewBorder(
		nil,
		container.NewPadded(container.NewHBox(mw.statusBar, widget.NewSeparator(), mw.countLbl)),
		nil,
		nil,
		container.NewCenter(placeholder),
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, 1000)),
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, 760)),
	))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Cube...", mw.onOpenCube),
		fyne.NewMenuItem("Open Wavelengths...", mw.onOpenWavelengths),
		fyne.NewMenuItem("Reopen Last", mw.onReopenLast),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Session...", mw.onSaveSession),
		fyne.NewMenuItem("Export Report...", mw.onExportReport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("RGB Composite", func() { mw.setRGBMode(true) }),
		fyne.NewMenuItem("Single Band", func() { mw.setRGBMode(false) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset View", mw.onResetView),
		fyne.NewMenuItem("Spectra Window", mw.toggleSpectralWindow),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventCubeLoaded, func(data interface{}) {
		if c, ok := data.(*cube.Cube); ok {
			mw.SetTitle("Specview - " + filepath.Base(c.Path))
			mw.updateStatus(fmt.Sprintf("Loaded %dx%dx%d cube", c.Rows, c.Cols, c.Bands))
		}
		mw.rebuildCanvas()
	})

	mw.state.On(app.EventWavelengthsLoaded, func(data interface{}) {
		axis := mw.state.Axis()
		mw.display.SetAxis(axis)
		if mw.canvas != nil {
			mw.canvas.SetWavelengths(axis)
			mw.syncIndicators()
		}
		mw.updateStatus(fmt.Sprintf("Loaded %d wavelengths", len(axis)))
	})

	mw.state.On(app.EventSpectraChanged, func(data interface{}) {
		mw.countLbl.SetText(fmt.Sprintf("spectra: %d", mw.state.Spectra.Len()))
		mw.syncOutlines()
	})

	mw.state.On(app.EventSessionSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Session saved: " + path)
		}
	})
}

// setupKeys forwards modifier and toggle keys into the canvas controller.
func (mw *MainWindow) setupKeys() {
	c, ok := mw.Canvas().(desktop.Canvas)
	if !ok {
		return
	}
	c.SetOnKeyDown(func(ev *fyne.KeyEvent) {
		if key, ok := mapKey(ev.Name); ok && mw.canvas != nil {
			mw.canvas.HandleKeyDown(key)
		}
	})
	c.SetOnKeyUp(func(ev *fyne.KeyEvent) {
		if key, ok := mapKey(ev.Name); ok && mw.canvas != nil {
			mw.canvas.HandleKeyUp(key)
		}
	})
}

func mapKey(name fyne.KeyName) (interaction.Key, bool) {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return interaction.KeyCollect, true
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return interaction.KeyLasso, true
	case fyne.KeyC:
		return interaction.KeyCrosshair, true
	}
	return 0, false
}

// rebuildCanvas replaces the display pipeline after a cube load.
func (mw *MainWindow) rebuildCanvas() {
	pc := mw.state.Padded
	if pc == nil {
		return
	}

	ridx, gidx, bidx := defaultBands(pc.Bands)
	comp, err := composite.New(pc, ridx, gidx, bidx)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	gray, err := composite.NewGrayBand(pc, ridx)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.compositor = comp
	mw.grayView = gray
	mw.applyStretch()

	cfg := interaction.Config{
		PanSensitivity:   mw.cfg.View.PanSensitivity,
		ZoomStep:         mw.cfg.View.ZoomStep,
		BandHitTolerance: mw.cfg.Interaction.BandHitTolerance,
	}
	mw.canvas = speccanvas.NewCubeCanvas(mw.sourceForMode(), mw.rgbMode, cfg)
	mw.applyOverlayColors()
	mw.canvas.SetWavelengths(mw.state.Axis())
	mw.display.SetAxis(mw.state.Axis())
	mw.syncIndicators()

	mw.canvas.OnPick(mw.onPick)
	mw.canvas.OnLasso(mw.onLasso)
	mw.canvas.OnCrosshair(mw.onCrosshair)
	mw.canvas.OnBandChange(mw.onBandChange)
	mw.canvas.OnCollectMode(mw.onCollectMode)
	mw.canvas.OnCursor(mw.onCursor)

	content := container.NewBorder(
		nil,
		container.NewPadded(container.NewHBox(mw.statusBar, widget.NewSeparator(), mw.countLbl)),
		nil,
		nil,
		mw.canvas,
	)
	mw.SetContent(content)
}

func (mw *MainWindow) sourceForMode() speccanvas.Source {
	if mw.rgbMode {
		return mw.compositor
	}
	return mw.grayView
}

func (mw *MainWindow) setRGBMode(rgb bool) {
	if mw.rgbMode == rgb || mw.compositor == nil {
		return
	}
	mw.rgbMode = rgb
	mw.rebuildCanvas()
	mw.syncOutlines()
}

// applyOverlayColors pushes the configured overlay palette to the canvas.
// Unparseable entries keep the built-in defaults.
func (mw *MainWindow) applyOverlayColors() {
	ov := mw.cfg.Overlay
	pick, err1 := app.ParseHexColor(ov.PickColor)
	lasso, err2 := app.ParseHexColor(ov.LassoColor)
	cross, err3 := app.ParseHexColor(ov.CrosshairColor)
	r, err4 := app.ParseHexColor(ov.IndicatorRed)
	g, err5 := app.ParseHexColor(ov.IndicatorGreen)
	b, err6 := app.ParseHexColor(ov.IndicatorBlue)
	for _, err := range []error{err1, err2, err3, err4, err5, err6} {
		if err != nil {
			log.Printf("overlay colors: %v", err)
			return
		}
	}
	mw.canvas.SetOverlayColors(pick, lasso, cross, [3]color.RGBA{r, g, b})
}

// applyStretch replaces the extrema bounds with the configured percentile
// stretch on every channel.
func (mw *MainWindow) applyStretch() {
	lo, hi := mw.cfg.Composite.LowPercentile, mw.cfg.Composite.HighPercentile
	for ch := composite.ChannelR; ch <= composite.ChannelB; ch++ {
		l, h, err := spectral.Percentiles(mw.compositor.ChannelSlice(ch), lo, hi)
		if err != nil || h <= l {
			continue
		}
		if err := mw.compositor.SetBounds(ch, l, h); err != nil {
			log.Printf("stretch: %v", err)
		}
	}
	plane := mw.state.Padded.Band(mw.grayView.BandIndex())
	if l, h, err := spectral.Percentiles(plane, lo, hi); err == nil && h > l {
		if err := mw.grayView.SetBounds(l, h); err != nil {
			log.Printf("stretch: %v", err)
		}
	}
}

// defaultBands spreads the initial RGB selection across the axis.
func defaultBands(bands int) (r, g, b int) {
	if bands < 3 {
		return 0, 0, 0
	}
	return bands - 1, bands / 2, 0
}

// syncIndicators pushes the compositor band positions to the strip and the
// spectral plot.
func (mw *MainWindow) syncIndicators() {
	if mw.compositor == nil || mw.canvas == nil {
		return
	}
	axis := mw.state.Axis()
	if len(axis) == 0 {
		return
	}
	at := func(ch composite.Channel) float64 {
		idx := mw.compositor.BandIndex(ch)
		if idx < 0 || idx >= len(axis) {
			return axis[0]
		}
		return axis[idx]
	}
	r, g, b := at(composite.ChannelR), at(composite.ChannelG), at(composite.ChannelB)
	mw.canvas.SetIndicators(r, g, b)
	mw.display.SetIndicators(r, g, b, mw.rgbMode)
}

// syncOutlines rebuilds the selection outlines from the cache so deletes
// and renames always reconcile the canvas.
func (mw *MainWindow) syncOutlines() {
	if mw.canvas == nil {
		return
	}
	var outlines []speccanvas.OverlayPolyline
	for _, sp := range mw.state.Spectra.Snapshot() {
		if sp.Kind != speccache.AreaMean {
			continue
		}
		pts := selection.Outline(sp.Coords, outlineMaxEdge)
		if len(pts) < 3 {
			continue
		}
		col := sp.Color
		outlines = append(outlines, speccanvas.OverlayPolyline{Points: pts, Closed: true, Color: &col})
	}
	mw.canvas.SetOutlines(outlines)
}

// Interaction callbacks

func (mw *MainWindow) onPick(coord geometry.PixelCoordinate) {
	pc := mw.state.Padded
	data := spectral.SingleSpectrum(pc, coord)
	if data == nil {
		return
	}
	name, err := mw.state.Spectra.Add(&speccache.Spectrum{
		Kind:        speccache.SinglePixel,
		Wavelengths: mw.state.Axis(),
		Data:        data,
		Coord:       coord,
		Artifacts:   mw.display.Artifact(),
	})
	if err != nil {
		log.Printf("pick: %v", err)
		return
	}
	mw.updateStatus("Collected " + name + " at " + mw.state.DataCoord(coord).String())
}

func (mw *MainWindow) onLasso(vertices []geometry.Point2D) {
	pc := mw.state.Padded
	grid := selection.NewPixelGrid(pc.Rows, pc.Cols)
	coords := selection.LassoPixels(vertices, grid)
	if len(coords) == 0 {
		mw.updateStatus("Selection contains no pixels")
		return
	}

	stats, err := spectral.AreaSpectrum(pc, coords)
	if err != nil {
		log.Printf("lasso: %v", err)
		return
	}
	name, err := mw.state.Spectra.Add(&speccache.Spectrum{
		Kind:        speccache.AreaMean,
		Wavelengths: mw.state.Axis(),
		Data:        stats.Mean,
		Err:         stats.Std,
		Coords:      coords,
		N:           stats.N,
		Artifacts:   mw.display.Artifact(),
	})
	if err != nil {
		log.Printf("lasso: %v", err)
		return
	}
	mw.updateStatus(fmt.Sprintf("Collected %s from %d pixels", name, stats.N))
}

func (mw *MainWindow) onCrosshair(coord geometry.PixelCoordinate, visible bool) {
	if !visible {
		mw.display.SetScan(nil)
		return
	}
	mw.display.SetScan(spectral.SingleSpectrum(mw.state.Padded, coord))
}

func (mw *MainWindow) onBandChange(channel int, wavelength float64) {
	axis := mw.state.Axis()
	idx, _, err := spectral.NearestWavelength(axis, wavelength)
	if err != nil {
		return
	}
	ch := composite.Channel(channel)
	if err := mw.compositor.SetBandIndex(ch, idx); err != nil {
		log.Printf("band change: %v", err)
		return
	}
	if ch == composite.ChannelR {
		_ = mw.grayView.SetBandIndex(idx)
	}
	mw.applyStretch()
	mw.syncIndicators()
	mw.canvas.Refresh()
}

func (mw *MainWindow) onCollectMode(active bool) {
	if active {
		mw.showSpectralWindow()
		mw.updateStatus("Collection mode on")
	} else {
		mw.updateStatus("Collection mode off")
	}
}

func (mw *MainWindow) onCursor(coord geometry.PixelCoordinate, inside bool) {
	if !inside {
		mw.statusBar.SetText("")
		return
	}
	band := 0
	if mw.compositor != nil {
		band = mw.compositor.BandIndex(composite.ChannelR)
	}
	mw.statusBar.SetText(mw.state.StatusAt(coord, band))
}

// Spectral window

func (mw *MainWindow) showSpectralWindow() {
	if mw.specOpen {
		return
	}
	mw.specWin = mw.app.NewWindow("Spectra")
	mw.panel.SetWindow(mw.specWin)
	split := container.NewVSplit(mw.display, mw.panel.Container())
	split.SetOffset(0.75)
	mw.specWin.SetContent(split)
	mw.specWin.Resize(fyne.NewSize(560, 520))
	mw.specWin.SetOnClosed(func() { mw.specOpen = false })
	mw.specWin.Show()
	mw.specOpen = true
}

func (mw *MainWindow) toggleSpectralWindow() {
	if mw.specOpen {
		mw.specWin.Close()
		return
	}
	mw.showSpectralWindow()
}

// Menu handlers

func (mw *MainWindow) onOpenCube() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadCube(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastCube, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(cube.CubeFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenWavelengths() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadWavelengths(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastWavelengths, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(cube.WavelengthFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onReopenLast() {
	cubePath := mw.prefs.String(prefs.KeyLastCube)
	if cubePath == "" {
		mw.updateStatus("No previous cube")
		return
	}
	if err := mw.state.LoadCube(cubePath); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if wvlPath := mw.prefs.String(prefs.KeyLastWavelengths); wvlPath != "" {
		if err := mw.state.LoadWavelengths(wvlPath); err != nil {
			log.Printf("reopen wavelengths: %v", err)
		}
	}
}

func (mw *MainWindow) onSaveSession() {
	if !mw.state.Loaded() || mw.state.Spectra.Len() == 0 {
		mw.updateStatus("Nothing to save")
		return
	}
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		path, err := mw.state.SaveSession(uri.Path())
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Session saved: " + path)
	}, mw.Window)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportReport() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		path, err := mw.state.SaveSession(uri.Path())
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.writeReport(path)
	}, mw.Window)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) writeReport(sessionPath string) {
	sess, err := export.ReadSession(sessionPath)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	htmlPath := sessionPath[:len(sessionPath)-len(filepath.Ext(sessionPath))] + ".html"
	if err := sess.WriteReport(htmlPath); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Report written: " + htmlPath)
}

func (mw *MainWindow) onResetView() {
	if mw.canvas == nil {
		return
	}
	mw.rebuildCanvas()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Specview",
		fmt.Sprintf("Specview v%s\n\n"+
			"An interactive spectral cube viewer.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("prefs: %v", err)
	}
}
