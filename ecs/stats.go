package ecs

// StorageStats is a point-in-time summary of the storage contents.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	Violations         int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes one archetype table.
type ArchetypeStats struct {
	ID             uint16
	ComponentTypes []string
	EntityCount    int
	Capacity       int
}

// CollectStats gathers statistics about the storage. Archetypes and singletons
// are reported in creation order.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount:     len(s.archetypes),
		SingletonCount:     len(s.singletonOrder),
		Violations:         s.violations,
		ArchetypeBreakdown: make([]ArchetypeStats, 0, len(s.archetypes)),
		SingletonTypes:     make([]string, 0, len(s.singletonOrder)),
	}

	for _, archetype := range s.archetypes {
		typeNames := make([]string, len(archetype.types))
		for i, t := range archetype.types {
			typeNames[i] = t.String()
		}

		count := archetype.Len()
		stats.TotalEntityCount += count
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: typeNames,
			EntityCount:    count,
			Capacity:       archetype.Cap(),
		})
	}

	for _, t := range s.singletonOrder {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}

	return stats
}
