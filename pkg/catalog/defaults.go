package catalog

// Region identifiers in the GUS variable-data-section cross-section 1046.
var defaultRegions = []Entry{
	{Name: "POLSKA", ID: 33617},
	{Name: "MAŁOPOLSKIE", ID: 33619},
	{Name: "ŚLĄSKIE", ID: 33929},
	{Name: "LUBUSKIE", ID: 34187},
	{Name: "WIELKOPOLSKIE", ID: 34353},
	{Name: "ZACHODNIOPOMORSKIE", ID: 34815},
	{Name: "DOLNOŚLĄSKIE", ID: 35067},
	{Name: "OPOLSKIE", ID: 35390},
	{Name: "KUJAWSKO-POMORSKIE", ID: 35542},
	{Name: "POMORSKIE", ID: 35786},
	{Name: "WARMIŃSKO-MAZURSKIE", ID: 35976},
	{Name: "ŁÓDZKIE", ID: 36185},
	{Name: "ŚWIĘTOKRZYSKIE", ID: 36450},
	{Name: "LUBELSKIE", ID: 36627},
	{Name: "PODKARPACKIE", ID: 36924},
	{Name: "PODLASKIE", ID: 37185},
	{Name: "MAZOWIECKIE", ID: 37380},
}

// Budget division (dział) identifiers.
var defaultCategories = []Entry{
	{Name: "Transport i łączność", ID: 7350010},
	{Name: "Turystyka", ID: 7350022},
	{Name: "Gospodarka mieszkaniowa", ID: 7350032},
	{Name: "Administracja publiczna", ID: 7350235},
	{Name: "Rolnictwo i łowiectwo", ID: 7361254},
	{Name: "Oświata i wychowanie", ID: 7361382},
	{Name: "Ochrona zdrowia", ID: 7361393},
	{Name: "Pomoc społeczna", ID: 7361400},
	{Name: "Edukacyjna opieka wychowawcza", ID: 7361442},
	{Name: "Rodzina", ID: 7361444},
	{Name: "Gospodarka komunalna", ID: 7361445},
	{Name: "Kultura", ID: 7361450},
	{Name: "Kultura fizyczna", ID: 7361480},
	{Name: "Ogółem", ID: 7361493},
}

// Default returns freshly built catalogs with the built-in GUS tables.
func Default() *Catalogs {
	regions, err := New(KindRegion, defaultRegions)
	if err != nil {
		panic(err)
	}
	categories, err := New(KindCategory, defaultCategories)
	if err != nil {
		panic(err)
	}
	return &Catalogs{Regions: regions, Categories: categories}
}
