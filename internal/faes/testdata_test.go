package faes

func inspectionSchema() Schema {
	return Schema{
		ID:      3,
		Version: "2",
		Title:   "Ficha de Avaliação e Execução de Serviço",
		Sections: []Section{
			{
				ID:    "identificacao",
				Title: "Identificação",
				Fields: []Field{
					{ID: "responsavel", Label: "Responsável no local", Type: FieldText, Required: true},
					{ID: "area_m2", Label: "Área tratada", Type: FieldNumber, Required: true, Unit: "m²"},
					{ID: "data_visita", Label: "Data da visita", Type: FieldDate, Required: true},
					{ID: "observacoes", Label: "Observações", Type: FieldText},
				},
			},
			{
				ID:    "tratamento",
				Title: "Tratamento",
				Fields: []Field{
					{
						ID:       "produtos",
						Label:    "Produtos",
						Type:     FieldRepeater,
						MinItems: 1,
						Fields: []Field{
							{ID: "praga", Label: "Praga", Type: FieldText, Required: true},
							{ID: "produto", Label: "Produto", Type: FieldText, Required: true},
							{ID: "metodo", Label: "Método", Type: FieldSelect, Options: []Option{{Value: "spray", Label: "Pulverização"}, {Value: "gel", Label: "Gel"}}},
						},
					},
					{ID: "fotos", Label: "Fotos", Type: FieldFile},
					{ID: "epi", Label: "EPI utilizado", Type: FieldCheckbox},
				},
			},
		},
	}
}
