package vocab

// Standard vocabularies.
const (
	RDF           Namespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS          Namespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSD           Namespace = "http://www.w3.org/2001/XMLSchema#"
	OWL           Namespace = "http://www.w3.org/2002/07/owl#"
	QB            Namespace = "http://purl.org/linked-data/cube#"
	SKOS          Namespace = "http://www.w3.org/2004/02/skos/core#"
	DCTerms       Namespace = "http://purl.org/dc/terms/"
	DCAT          Namespace = "http://www.w3.org/ns/dcat#"
	PROV          Namespace = "http://www.w3.org/ns/prov#"
	FOAF          Namespace = "http://xmlns.com/foaf/0.1/"
	SDMXDimension Namespace = "http://purl.org/linked-data/sdmx/2009/dimension#"
	SDMXConcept   Namespace = "http://purl.org/linked-data/sdmx/2009/concept#"
	SDMXMeasure   Namespace = "http://purl.org/linked-data/sdmx/2009/measure#"
	EuroVoc       Namespace = "http://eurovoc.europa.eu/"
)

// StandardPrefixes returns the prefix bindings for the standard
// vocabularies in a fixed order.
func StandardPrefixes() []Prefix {
	return []Prefix{
		{Name: "rdf", Namespace: RDF},
		{Name: "rdfs", Namespace: RDFS},
		{Name: "xsd", Namespace: XSD},
		{Name: "owl", Namespace: OWL},
		{Name: "qb", Namespace: QB},
		{Name: "skos", Namespace: SKOS},
		{Name: "dcterms", Namespace: DCTerms},
		{Name: "dcat", Namespace: DCAT},
		{Name: "prov", Namespace: PROV},
		{Name: "foaf", Namespace: FOAF},
		{Name: "sdmx-dimension", Namespace: SDMXDimension},
		{Name: "sdmx-concept", Namespace: SDMXConcept},
		{Name: "sdmx-measure", Namespace: SDMXMeasure},
		{Name: "eurovoc", Namespace: EuroVoc},
	}
}

// rdf, rdfs, xsd, owl
var (
	RDFType       = RDF.Term("type")
	RDFProperty   = RDF.Term("Property")
	RDFSLabel     = RDFS.Term("label")
	RDFSRange     = RDFS.Term("range")
	RDFSSubPropOf = RDFS.Term("subPropertyOf")
	XSDAnyURI     = XSD.Term("anyURI")
	XSDInteger    = XSD.Term("integer")
	XSDString     = XSD.Term("string")
	XSDDate       = XSD.Term("date")
	XSDBoolean    = XSD.Term("boolean")
	OWLInverseOf  = OWL.Term("inverseOf")
)

// qb
var (
	QBDataSet                 = QB.Term("DataSet")
	QBDataStructureDefinition = QB.Term("DataStructureDefinition")
	QBComponentSpecification  = QB.Term("ComponentSpecification")
	QBObservation             = QB.Term("Observation")
	QBDimensionProperty       = QB.Term("DimensionProperty")
	QBMeasureProperty         = QB.Term("MeasureProperty")
	QBAttributeProperty       = QB.Term("AttributeProperty")
	QBSlice                   = QB.Term("Slice")
	QBSliceKey                = QB.Term("SliceKey")
	QBHierarchicalCodeList    = QB.Term("HierarchicalCodeList")

	QBDataSetProp       = QB.Term("dataSet")
	QBStructure         = QB.Term("structure")
	QBComponent         = QB.Term("component")
	QBComponentProperty = QB.Term("componentProperty")
	QBComponentRequired = QB.Term("componentRequired")
	QBDimension         = QB.Term("dimension")
	QBMeasure           = QB.Term("measure")
	QBAttribute         = QB.Term("attribute")
	QBMeasureType       = QB.Term("measureType")
	QBMeasureDimension  = QB.Term("measureDimension")
	QBConcept           = QB.Term("concept")
	QBCodeList          = QB.Term("codeList")
	QBSliceProp         = QB.Term("slice")
	QBSliceKeyProp      = QB.Term("sliceKey")
	QBSliceStructure    = QB.Term("sliceStructure")
	QBObservationProp   = QB.Term("observation")
	QBHierarchyRoot     = QB.Term("hierarchyRoot")
	QBParentChildProp   = QB.Term("parentChildProperty")
)

// skos
var (
	SKOSConcept       = SKOS.Term("Concept")
	SKOSConceptScheme = SKOS.Term("ConceptScheme")
	SKOSCollection    = SKOS.Term("Collection")
	SKOSPrefLabel     = SKOS.Term("prefLabel")
	SKOSNotation      = SKOS.Term("notation")
	SKOSInScheme      = SKOS.Term("inScheme")
	SKOSMember        = SKOS.Term("member")
	SKOSBroader       = SKOS.Term("broader")
	SKOSNarrower      = SKOS.Term("narrower")
	SKOSHasTopConcept = SKOS.Term("hasTopConcept")
)

// dcterms
var (
	DCTermsTitle              = DCTerms.Term("title")
	DCTermsDescription        = DCTerms.Term("description")
	DCTermsIssued             = DCTerms.Term("issued")
	DCTermsModified           = DCTerms.Term("modified")
	DCTermsPublisher          = DCTerms.Term("publisher")
	DCTermsCreator            = DCTerms.Term("creator")
	DCTermsLicense            = DCTerms.Term("license")
	DCTermsSpatial            = DCTerms.Term("spatial")
	DCTermsTemporal           = DCTerms.Term("temporal")
	DCTermsFormat             = DCTerms.Term("format")
	DCTermsAccrualPeriodicity = DCTerms.Term("accrualPeriodicity")
	DCTermsPeriodOfTime       = DCTerms.Term("PeriodOfTime")
)

// dcat
var (
	DCATDataset      = DCAT.Term("Dataset")
	DCATDistribution = DCAT.Term("Distribution")
	DCATKeyword      = DCAT.Term("keyword")
	DCATTheme        = DCAT.Term("theme")
	DCATDistProp     = DCAT.Term("distribution")
	DCATAccessURL    = DCAT.Term("accessURL")
	DCATDownloadURL  = DCAT.Term("downloadURL")
	DCATMediaType    = DCAT.Term("mediaType")
	DCATStartDate    = DCAT.Term("startDate")
	DCATEndDate      = DCAT.Term("endDate")
)

// prov
var (
	PROVEntity           = PROV.Term("Entity")
	PROVActivity         = PROV.Term("Activity")
	PROVAgent            = PROV.Term("Agent")
	PROVPerson           = PROV.Term("Person")
	PROVOrganization     = PROV.Term("Organization")
	PROVSoftwareAgent    = PROV.Term("SoftwareAgent")
	PROVRole             = PROV.Term("Role")
	PROVUsage            = PROV.Term("Usage")
	PROVHadPrimarySource = PROV.Term("hadPrimarySource")
	PROVActedOnBehalfOf  = PROV.Term("actedOnBehalfOf")
	PROVGenerated        = PROV.Term("generated")
	PROVWasGeneratedBy   = PROV.Term("wasGeneratedBy")
	PROVUsed             = PROV.Term("used")
	PROVWasAssociated    = PROV.Term("wasAssociatedWith")
	PROVStartedAtTime    = PROV.Term("startedAtTime")
	PROVEndedAtTime      = PROV.Term("endedAtTime")
	PROVQualifiedUsage   = PROV.Term("qualifiedUsage")
	PROVEntityProp       = PROV.Term("entity")
	PROVHadRole          = PROV.Term("hadRole")
	PROVAtTime           = PROV.Term("atTime")
)

// foaf
var (
	FOAFPerson    = FOAF.Term("Person")
	FOAFName      = FOAF.Term("name")
	FOAFFirstName = FOAF.Term("firstName")
	FOAFLastName  = FOAF.Term("lastName")
	FOAFSurname   = FOAF.Term("surname")
)
