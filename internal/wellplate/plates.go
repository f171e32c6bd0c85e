package wellplate

// knownPlates lists the plates shipped with the catalog. Data sheets give A1
// as a well centre; offsets here are converted to the top-left corner.
func knownPlates() []Wellplate {
	return []Wellplate{
		// Revvity
		{
			Manufacturer:        "Revvity",
			ModelName:           "PhenoPlate 96-well",
			ModelIDManufacturer: "6055302",
			ModelID:             "revvity-96-6055302",
			NumWellsX:           12,
			NumWellsY:           8,
			LengthMM:            127.76,
			WidthMM:             85.48,
			WellSizeXMM:         6.4,
			WellSizeYMM:         6.4,
			WellEdgeRadiusMM:    6.4 / 2,
			OffsetA1XMM:         14.38 - 6.4/2,
			OffsetA1YMM:         11.24 - 6.4/2,
			WellDistanceXMM:     9,
			WellDistanceYMM:     9,
			OffsetBottomMM:      0.118 + 0.210, // foil + bottom
		},
		{
			Manufacturer:        "Revvity",
			ModelName:           "PhenoPlate 384-well",
			ModelIDManufacturer: "6057800",
			ModelID:             "revvity-384-6057800",
			NumWellsX:           24,
			NumWellsY:           16,
			LengthMM:            127.76,
			WidthMM:             85.48,
			WellSizeXMM:         3.26,
			WellSizeYMM:         3.26,
			WellEdgeRadiusMM:    0.2,
			OffsetA1XMM:         12.13 - 3.26/2,
			OffsetA1YMM:         8.99 - 3.26/2,
			WellDistanceXMM:     4.5,
			WellDistanceYMM:     4.5,
			OffsetBottomMM:      0.118 + 0.210,
		},
		{
			Manufacturer:        "Revvity",
			ModelName:           "PhenoPlate 1536-well",
			ModelIDManufacturer: "6054305",
			ModelID:             "revvity-1536-6054305",
			NumWellsX:           48,
			NumWellsY:           32,
			LengthMM:            127.76,
			WidthMM:             85.48,
			WellSizeXMM:         1.53,
			WellSizeYMM:         1.53,
			WellEdgeRadiusMM:    0.1,
			OffsetA1XMM:         11.01 - 1.53/2,
			OffsetA1YMM:         7.87 - 1.53/2,
			WellDistanceXMM:     2.25,
			WellDistanceYMM:     2.25,
			OffsetBottomMM:      0.118 + 0.210,
		},

		// ThermoFisher
		{
			Manufacturer:        "ThermoFisher",
			ModelName:           "Nunc 96-well",
			ModelIDManufacturer: "165305",
			ModelID:             "thermofisher-96-165305",
			NumWellsX:           12,
			NumWellsY:           8,
			LengthMM:            127.76,
			WidthMM:             85.47,
			WellSizeXMM:         6.3,
			WellSizeYMM:         6.3,
			WellEdgeRadiusMM:    6.3 / 2,
			OffsetA1XMM:         14.32 - 6.3/2,
			OffsetA1YMM:         11.25 - 6.3/2,
			WellDistanceXMM:     9,
			WellDistanceYMM:     9,
			OffsetBottomMM:      2.2,
		},
		{
			Manufacturer:        "ThermoFisher",
			ModelName:           "384-well (A58941)",
			ModelIDManufacturer: "A58941",
			ModelID:             "thermofisher-384-A58941",
			NumWellsX:           24,
			NumWellsY:           16,
			LengthMM:            127.76,
			WidthMM:             85.48,
			WellSizeXMM:         3.17,
			WellSizeYMM:         3.17,
			WellEdgeRadiusMM:    0.2,
			OffsetA1XMM:         12.13 - 3.17/2,
			OffsetA1YMM:         8.99 - 3.17/2,
			WellDistanceXMM:     4.5,
			WellDistanceYMM:     4.5,
			OffsetBottomMM:      2.2, // taken from the Nunc 96-well
		},
		{
			Manufacturer:        "ThermoFisher",
			ModelName:           "Nunc 384-well (142761)",
			ModelIDManufacturer: "142761",
			ModelID:             "thermofisher-384-142761",
			NumWellsX:           24,
			NumWellsY:           16,
			LengthMM:            127.76,
			WidthMM:             85.5,
			WellSizeXMM:         3.17,
			WellSizeYMM:         3.17,
			WellEdgeRadiusMM:    0.2,
			OffsetA1XMM:         12.1 - 3.17/2,
			OffsetA1YMM:         9.0 - 3.17/2,
			WellDistanceXMM:     4.5,
			WellDistanceYMM:     4.5,
			OffsetBottomMM:      1.7 + 0.25,
		},
		{
			Manufacturer:        "ThermoFisher",
			ModelName:           "Nunc 1536-well",
			ModelIDManufacturer: "253601",
			ModelID:             "thermofisher-1536-253601",
			NumWellsX:           48,
			NumWellsY:           32,
			LengthMM:            127.8,
			WidthMM:             85.5,
			WellSizeXMM:         1.7, // top of well
			WellSizeYMM:         1.7,
			WellEdgeRadiusMM:    0.1,
			OffsetA1XMM:         11.0 - 1.7/2,
			OffsetA1YMM:         7.9 - 1.7/2,
			WellDistanceXMM:     2.2,
			WellDistanceYMM:     2.2,
			OffsetBottomMM:      7.4 - 5.1, // plate height - well depth
		},

		// Corning
		{
			Manufacturer:        "Corning",
			ModelName:           "Falcon 96-well",
			ModelIDManufacturer: "353072",
			ModelID:             "corning-96-353072",
			NumWellsX:           12,
			NumWellsY:           8,
			LengthMM:            127.76,
			WidthMM:             85.11,
			WellSizeXMM:         6.35,
			WellSizeYMM:         6.35,
			WellEdgeRadiusMM:    6.35 / 2,
			OffsetA1XMM:         14.38 - 6.35/2,
			OffsetA1YMM:         11.34 - 6.35/2,
			WellDistanceXMM:     8.99,
			WellDistanceYMM:     8.99,
			OffsetBottomMM:      14.30 - 10.76,
		},
		{
			Manufacturer:        "Corning",
			ModelName:           "Falcon 384 (353961)",
			ModelIDManufacturer: "353961",
			ModelID:             "corning-384-353961",
			NumWellsX:           24,
			NumWellsY:           16,
			LengthMM:            127.76,
			WidthMM:             85.48,
			WellSizeXMM:         3.30,
			WellSizeYMM:         3.30,
			WellEdgeRadiusMM:    0.2,
			OffsetA1XMM:         12.13 - 3.30/2,
			OffsetA1YMM:         8.99 - 3.30/2,
			WellDistanceXMM:     4.5,
			WellDistanceYMM:     4.5,
			OffsetBottomMM:      14.30 - 10.76,
		},
		{
			// Not in the data sheet; values estimated from the 353961.
			Manufacturer:        "Corning",
			ModelName:           "Falcon 384 (353962)",
			ModelIDManufacturer: "353962",
			ModelID:             "corning-384-353962",
			NumWellsX:           24,
			NumWellsY:           16,
			LengthMM:            127.76,
			WidthMM:             85.5,
			WellSizeXMM:         3.3,
			WellSizeYMM:         3.3,
			WellEdgeRadiusMM:    0.6,
			OffsetA1XMM:         12.13,
			OffsetA1YMM:         8.9,
			WellDistanceXMM:     4.5,
			WellDistanceYMM:     4.5,
			OffsetBottomMM:      2,
		},
		{
			Manufacturer:        "Corning",
			ModelName:           "Corning 1536-well",
			ModelIDManufacturer: "3832",
			ModelID:             "corning-1536-3832",
			NumWellsX:           48,
			NumWellsY:           32,
			LengthMM:            127.8,
			WidthMM:             85.5,
			WellSizeXMM:         1.5,
			WellSizeYMM:         1.5,
			WellEdgeRadiusMM:    0.1,
			OffsetA1XMM:         11.0 - 1.5/2,
			OffsetA1YMM:         7.86 - 1.5/2,
			WellDistanceXMM:     2.25,
			WellDistanceYMM:     2.25,
			OffsetBottomMM:      0.08 + 1.72,
		},

		// Agilent
		{
			Manufacturer:        "Agilent",
			ModelName:           "Agilent 384 (204628)",
			ModelIDManufacturer: "204628-100",
			ModelID:             "agilent-384-204628",
			NumWellsX:           24,
			NumWellsY:           16,
			LengthMM:            127.76,
			WidthMM:             85.47,
			WellSizeXMM:         3.7,
			WellSizeYMM:         3.7,
			WellEdgeRadiusMM:    0.2,
			OffsetA1XMM:         12.13 - 3.7/2,
			OffsetA1YMM:         8.99 - 3.7/2,
			WellDistanceXMM:     4.5,
			WellDistanceYMM:     4.5,
			OffsetBottomMM:      14 - 10.9,
		},

		// Greiner
		{
			Manufacturer:        "Greiner",
			ModelName:           "Cellstar 384",
			ModelIDManufacturer: "781091",
			ModelID:             "greiner-384-781091",
			NumWellsX:           24,
			NumWellsY:           16,
			LengthMM:            127.35,
			WidthMM:             85.8,
			WellSizeXMM:         3.3,
			WellSizeYMM:         3.3,
			WellEdgeRadiusMM:    0.2,
			OffsetA1XMM:         12.13 - 3.3/2,
			OffsetA1YMM:         8.99 - 3.3/2,
			WellDistanceXMM:     4.5,
			WellDistanceYMM:     4.5,
			OffsetBottomMM:      14.4 - 11.5,
		},
		{
			Manufacturer:        "Greiner",
			ModelName:           "SCREENSTAR 384",
			ModelIDManufacturer: "781866",
			ModelID:             "greiner-384-781866",
			NumWellsX:           24,
			NumWellsY:           16,
			LengthMM:            127.76,
			WidthMM:             85.48,
			WellSizeXMM:         2.81,
			WellSizeYMM:         2.81,
			WellEdgeRadiusMM:    0.2,
			OffsetA1XMM:         12.13 - 2.81/2,
			OffsetA1YMM:         8.99 - 2.81/2,
			WellDistanceXMM:     4.5,
			WellDistanceYMM:     4.5,
			OffsetBottomMM:      13.1 - 12.7,
		},

		// Slide holders: one "well" per slide; pitch is meaningless with a single well.
		{
			Manufacturer:        "Generic",
			ModelName:           "Slide Holder",
			ModelIDManufacturer: "holder1",
			ModelID:             "generic-1-holder1",
			NumWellsX:           1,
			NumWellsY:           1,
			LengthMM:            127.8,
			WidthMM:             85.5,
			WellSizeXMM:         75,
			WellSizeYMM:         26,
			WellEdgeRadiusMM:    0,
			OffsetA1XMM:         (127.8 - 75) / 2,
			OffsetA1YMM:         (85.5 - 26) / 2,
			WellDistanceXMM:     0,
			WellDistanceYMM:     0,
			OffsetBottomMM:      0.08 + 1.72, // placeholder
		},
		{
			Manufacturer:        "Thorlabs",
			ModelName:           "C4SH01",
			ModelIDManufacturer: "C4SH01",
			ModelID:             "thorlabs-4-C4SH01",
			NumWellsX:           4,
			NumWellsY:           1,
			LengthMM:            127.6,
			WidthMM:             85.5,
			WellSizeXMM:         25,
			WellSizeYMM:         75,
			WellEdgeRadiusMM:    0,
			OffsetA1XMM:         23.1 - 25.0/2,
			OffsetA1YMM:         (85.5 - 75) / 2,
			WellDistanceXMM:     27.2, // CAD drawing varies between 27.1 and 27.2
			WellDistanceYMM:     0,
			OffsetBottomMM:      0.08 + 1.72, // placeholder
		},
	}
}
