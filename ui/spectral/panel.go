package spectral

import (
	"specview/internal/speccache"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Panel lists the collected spectra with rename and delete controls, plus
// clear-all and save actions.
type Panel struct {
	cache  *speccache.Cache
	window fyne.Window

	list   *widget.List
	names  []string
	onSave func()

	container fyne.CanvasObject
}

// NewPanel builds the spectra management panel. onSave runs when the save
// button is pressed.
func NewPanel(cache *speccache.Cache, onSave func()) *Panel {
	p := &Panel{cache: cache, onSave: onSave}

	p.list = widget.NewList(
		func() int { return len(p.names) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil,
				container.NewHBox(
					widget.NewButton("Rename", nil),
					widget.NewButton("Delete", nil),
				),
				widget.NewLabel(""),
			)
		},
		p.updateItem,
	)

	clearBtn := widget.NewButton("Clear All", p.onClear)
	saveBtn := widget.NewButton("Save Session", func() {
		if p.onSave != nil {
			p.onSave()
		}
	})

	p.container = container.NewBorder(nil, container.NewHBox(clearBtn, saveBtn), nil, nil, p.list)

	for _, ev := range []speccache.Event{
		speccache.EventAdded, speccache.EventRenamed,
		speccache.EventRemoved, speccache.EventCleared,
	} {
		cache.On(ev, func(speccache.EventData) { p.Reload() })
	}
	p.Reload()
	return p
}

// SetWindow sets the parent window for dialogs.
func (p *Panel) SetWindow(w fyne.Window) {
	p.window = w
}

// Container returns the panel container.
func (p *Panel) Container() fyne.CanvasObject {
	return p.container
}

// Reload resyncs the list with the cache.
func (p *Panel) Reload() {
	p.names = p.cache.Names()
	p.list.Refresh()
}

func (p *Panel) updateItem(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(p.names) {
		return
	}
	name := p.names[id]

	border := obj.(*fyne.Container)
	label := border.Objects[0].(*widget.Label)
	buttons := border.Objects[1].(*fyne.Container)
	renameBtn := buttons.Objects[0].(*widget.Button)
	deleteBtn := buttons.Objects[1].(*widget.Button)

	label.SetText(name)
	renameBtn.OnTapped = func() { p.showRename(name) }
	deleteBtn.OnTapped = func() { p.deleteEntry(name) }
}

func (p *Panel) showRename(name string) {
	entry := widget.NewEntry()
	entry.SetText(name)
	dialog.ShowForm("Rename "+name, "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(ok bool) {
			if !ok || entry.Text == name {
				return
			}
			if err := p.cache.Rename(name, entry.Text); err != nil {
				dialog.ShowError(err, p.window)
			}
		}, p.window)
}

func (p *Panel) deleteEntry(name string) {
	sp, err := p.cache.Remove(name)
	if err != nil {
		dialog.ShowError(err, p.window)
		return
	}
	if sp.Artifacts != nil {
		sp.Artifacts.Release()
	}
}

func (p *Panel) onClear() {
	dialog.ShowConfirm("Clear spectra", "Remove all collected spectra?", func(ok bool) {
		if !ok {
			return
		}
		for _, sp := range p.cache.Clear() {
			if sp.Artifacts != nil {
				sp.Artifacts.Release()
			}
		}
	}, p.window)
}
