package i18n

// Message keys used by the terminal UI. The English text doubles as the key.
const (
	MsgTitle          = "Settings"
	MsgColumnGroup    = "Group"
	MsgColumnKey      = "Key"
	MsgColumnValue    = "Value"
	MsgEmpty          = "No settings loaded"
	MsgEditing        = "Editing %s"
	MsgSaved          = "Saved to %s"
	MsgSaveFailed     = "Save failed: %v"
	MsgReloaded       = "Reloaded %s"
	MsgReloadFailed   = "Reload failed: %v"
	MsgChangedOnDisk  = "%s changed on disk, reloading"
	MsgValueUpdated   = "%s = %v"
	MsgInvalidValue   = "Invalid value: %v"
	MsgNoFile         = "No settings file configured"
	MsgLanguage       = "Language: %s"
	MsgHelpUp         = "up"
	MsgHelpDown       = "down"
	MsgHelpExpand     = "expand/collapse"
	MsgHelpEdit       = "edit"
	MsgHelpSave       = "save"
	MsgHelpReload     = "reload"
	MsgHelpCancel     = "cancel"
	MsgHelpQuit       = "quit"
	MsgHelpToggleHelp = "help"
)

var german = map[string]string{
	MsgTitle:          "Einstellungen",
	MsgColumnGroup:    "Gruppe",
	MsgColumnKey:      "Schlüssel",
	MsgColumnValue:    "Wert",
	MsgEmpty:          "Keine Einstellungen geladen",
	MsgEditing:        "Bearbeite %s",
	MsgSaved:          "Gespeichert in %s",
	MsgSaveFailed:     "Speichern fehlgeschlagen: %v",
	MsgReloaded:       "%s neu geladen",
	MsgReloadFailed:   "Neuladen fehlgeschlagen: %v",
	MsgChangedOnDisk:  "%s wurde geändert, lade neu",
	MsgValueUpdated:   "%s = %v",
	MsgInvalidValue:   "Ungültiger Wert: %v",
	MsgNoFile:         "Keine Einstellungsdatei konfiguriert",
	MsgLanguage:       "Sprache: %s",
	MsgHelpUp:         "hoch",
	MsgHelpDown:       "runter",
	MsgHelpExpand:     "auf-/zuklappen",
	MsgHelpEdit:       "bearbeiten",
	MsgHelpSave:       "speichern",
	MsgHelpReload:     "neu laden",
	MsgHelpCancel:     "abbrechen",
	MsgHelpQuit:       "beenden",
	MsgHelpToggleHelp: "Hilfe",
}

var english = map[string]string{
	MsgTitle:          MsgTitle,
	MsgColumnGroup:    MsgColumnGroup,
	MsgColumnKey:      MsgColumnKey,
	MsgColumnValue:    MsgColumnValue,
	MsgEmpty:          MsgEmpty,
	MsgEditing:        MsgEditing,
	MsgSaved:          MsgSaved,
	MsgSaveFailed:     MsgSaveFailed,
	MsgReloaded:       MsgReloaded,
	MsgReloadFailed:   MsgReloadFailed,
	MsgChangedOnDisk:  MsgChangedOnDisk,
	MsgValueUpdated:   MsgValueUpdated,
	MsgInvalidValue:   MsgInvalidValue,
	MsgNoFile:         MsgNoFile,
	MsgLanguage:       MsgLanguage,
	MsgHelpUp:         MsgHelpUp,
	MsgHelpDown:       MsgHelpDown,
	MsgHelpExpand:     MsgHelpExpand,
	MsgHelpEdit:       MsgHelpEdit,
	MsgHelpSave:       MsgHelpSave,
	MsgHelpReload:     MsgHelpReload,
	MsgHelpCancel:     MsgHelpCancel,
	MsgHelpQuit:       MsgHelpQuit,
	MsgHelpToggleHelp: MsgHelpToggleHelp,
}
