package catalog

// Default returns the Detetive card set.
func Default() Catalog {
	return New(defaultSuspects, defaultWeapons, defaultLocations)
}

var defaultSuspects = []Item{ //nolint:gochecknoglobals // static card data
	{ID: "s1", Name: "Sargento Bigode"},
	{ID: "s2", Name: "Florista Dona Branca"},
	{ID: "s3", Name: "Chef de Cozinha Tony Gourmet"},
	{ID: "s4", Name: "Mordomo James"},
	{ID: "s5", Name: "Médica Dona Violeta"},
	{ID: "s6", Name: "Dançarina Srta. Rosa"},
}

var defaultWeapons = []Item{ //nolint:gochecknoglobals // static card data
	{ID: "w1", Name: "Arma Química"},
	{ID: "w2", Name: "Espingarda"},
	{ID: "w3", Name: "Faca"},
	{ID: "w4", Name: "Pá"},
	{ID: "w5", Name: "Pé de Cabra"},
	{ID: "w6", Name: "Soco Inglês"},
	{ID: "w7", Name: "Tesoura"},
	{ID: "w8", Name: "Veneno"},
}

var defaultLocations = []Item{ //nolint:gochecknoglobals // static card data
	{ID: "l1", Name: "Banco"},
	{ID: "l2", Name: "Boate"},
	{ID: "l3", Name: "Cemitério"},
	{ID: "l4", Name: "Estação de Trem"},
	{ID: "l5", Name: "Floricultura"},
	{ID: "l6", Name: "Hospital"},
	{ID: "l7", Name: "Hotel"},
	{ID: "l8", Name: "Mansão"},
	{ID: "l9", Name: "Praça Central"},
	{ID: "l10", Name: "Prefeitura"},
	{ID: "l11", Name: "Restaurante"},
}
