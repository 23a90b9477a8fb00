package config

// DefaultVendors are the vendor checkboxes offered by the storefront.
var DefaultVendors = []string{
	"Alter",
	"Aniplex",
	"Bandai",
	"Bandai Tamashii Nations",
	"Banpresto",
	"Beeline Creative",
	"Bellfine",
	"Bioworld",
	"cooledtured",
	"DC Direct",
	"Enterbay",
	"Freeing",
	"First 4 Figures",
	"FuRyu",
	"Funko",
	"Good Smile Company",
	"Iron Studios",
	"Kotobukiya",
	"Mattel",
	"McFarlane Toys",
	"Medicom",
	"Megahouse",
	"Ques Q",
	"Salesone Studios",
	"Sega",
	"Sentinel",
	"Taito",
	"Union Creative",
}

// DefaultTypes are the product type checkboxes offered by the storefront.
var DefaultTypes = []string{
	"1000 Toys",
	"Action & Toy Figures",
	"Board Games",
	"Ceramics",
	"Hats",
	"Socks",
	"Wallet",
	"Plush",
	"Super Premium",
	"FuRyu",
	"Q Posket",
}
