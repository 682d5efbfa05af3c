package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/catalog"
)

func testPlants() []catalog.Summary {
	return []catalog.Summary{
		{BotanicalName: "Acer rubrum", CommonName: "Red maple", LeafHabit: botanical.Deciduous, ScaleBoxCM: 1500},
		{BotanicalName: "Betula pendula", CommonName: "Silver birch", LeafHabit: botanical.Deciduous, ScaleBoxCM: 2500},
		{BotanicalName: "Taxus baccata", CommonName: "Yew", LeafHabit: botanical.Evergreen, ScaleBoxCM: 1000},
	}
}

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func TestPlantListNavigateAndSelect(t *testing.T) {
	down := tea.KeyMsg{Type: tea.KeyDown}
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	m := press(NewPlantListModel(testPlants()), down, down, down, enter).(PlantListModel)
	if m.Selected == nil || m.Selected.BotanicalName != "Taxus baccata" {
		t.Errorf("Selected = %+v, want Taxus baccata (cursor stops at the end)", m.Selected)
	}
}

func TestPlantListFilter(t *testing.T) {
	typed := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("birch")}
	m := press(NewPlantListModel(testPlants()), typed).(PlantListModel)
	if vis := m.visible(); len(vis) != 1 || vis[0].BotanicalName != "Betula pendula" {
		t.Fatalf("visible = %+v", vis)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}).(PlantListModel)
	if m.Selected == nil || m.Selected.BotanicalName != "Betula pendula" {
		t.Errorf("Selected = %+v", m.Selected)
	}
}

func TestPlantListFilterNoMatch(t *testing.T) {
	m := press(NewPlantListModel(testPlants()),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("quercus")},
		tea.KeyMsg{Type: tea.KeyEnter}).(PlantListModel)
	if m.Selected != nil {
		t.Errorf("Selected = %+v, want nil", m.Selected)
	}
	if !strings.Contains(m.View(), "[0/0]") {
		t.Error("view should report an empty list")
	}
}

func TestPlantListBackspace(t *testing.T) {
	m := press(NewPlantListModel(testPlants()),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("yewx")},
		tea.KeyMsg{Type: tea.KeyBackspace}).(PlantListModel)
	if m.Filter != "yew" || len(m.visible()) != 1 {
		t.Errorf("Filter = %q, visible = %d", m.Filter, len(m.visible()))
	}
}

func TestPlantListQuit(t *testing.T) {
	m := NewPlantListModel(testPlants())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestPlantListView(t *testing.T) {
	view := NewPlantListModel(testPlants()).View()
	for _, want := range []string{"Select Plant", "Acer rubrum", "Silver birch", "15 m", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFormatMeters(t *testing.T) {
	if got := formatMeters(250); got != "2.5 m" {
		t.Errorf("formatMeters(250) = %q", got)
	}
}
