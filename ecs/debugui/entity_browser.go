package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/invaders/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	ArchetypeID    uint16
	Generation     uint16
	Slot           uint32
	ComponentTypes []string
}

// EntityBrowser lists live entities and shows the components of the selected one.
// Rows are rebuilt every frame because the simulation churns entities each tick.
type EntityBrowser struct {
	selected           ecs.EntityId
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{maxEntitiesPerPage: maxEntitiesPerPage}
}

// collectEntities lists every live entity in archetype then slot order.
func collectEntities(storage *ecs.Storage) []EntityInfo {
	var entities []EntityInfo
	for _, archetype := range storage.GetArchetypes() {
		componentTypes := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			componentTypes[i] = t.String()
		}

		for id := range archetype.Iter() {
			entities = append(entities, EntityInfo{
				ID:             id,
				ArchetypeID:    id.ArchetypeId(),
				Generation:     id.Generation(),
				Slot:           id.Index(),
				ComponentTypes: componentTypes,
			})
		}
	}
	return entities
}

// filterEntities keeps entities whose id or component names contain text, case-insensitively.
func filterEntities(entities []EntityInfo, text string) []EntityInfo {
	if text == "" {
		return entities
	}

	needle := strings.ToLower(text)
	filtered := make([]EntityInfo, 0, len(entities))
	for _, entity := range entities {
		components := strings.ToLower(strings.Join(entity.ComponentTypes, " "))
		if strings.Contains(fmt.Sprintf("%d", entity.ID), needle) || strings.Contains(components, needle) {
			filtered = append(filtered, entity)
		}
	}
	return filtered
}

func (eb *EntityBrowser) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	entities := filterEntities(collectEntities(storage), eb.filterText)

	totalPages := max(1, (len(entities)+eb.maxEntitiesPerPage-1)/eb.maxEntitiesPerPage)
	eb.currentPage = min(eb.currentPage, totalPages-1)
	startIdx := eb.currentPage * eb.maxEntitiesPerPage
	endIdx := min(startIdx+eb.maxEntitiesPerPage, len(entities))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 240), 0) {
		imgui.TableSetupColumn("Slot")
		imgui.TableSetupColumn("Gen")
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		for _, entity := range entities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d##%d", entity.Slot, entity.ID), eb.selected == entity.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.Generation))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ArchetypeID))
			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))
		}

		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(entities)))
	imgui.SameLine()
	if imgui.Button("Prev") && eb.currentPage > 0 {
		eb.currentPage--
	}
	imgui.SameLine()
	if imgui.Button("Next") && eb.currentPage < totalPages-1 {
		eb.currentPage++
	}

	imgui.Separator()
	eb.renderSelected(storage)

	imgui.End()
}

func (eb *EntityBrowser) renderSelected(storage *ecs.Storage) {
	if eb.selected.IsZero() {
		imgui.Text("No entity selected")
		return
	}
	if !storage.Alive(eb.selected) {
		imgui.Text(fmt.Sprintf("Entity %d was destroyed", eb.selected))
		return
	}

	imgui.Text(fmt.Sprintf("Entity %d", eb.selected))
	for _, archetype := range storage.GetArchetypes() {
		if archetype.ID() != eb.selected.ArchetypeId() {
			continue
		}
		for _, compType := range archetype.Types() {
			if component := storage.GetComponent(eb.selected, compType); component != nil {
				imgui.BulletText(fmt.Sprintf("%s %+v", compType, component))
			}
		}
	}
}

// Selected returns the entity picked in the table, or zero.
func (eb *EntityBrowser) Selected() ecs.EntityId {
	return eb.selected
}
