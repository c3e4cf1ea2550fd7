package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ConsultCompleted = "completada"

// ClinicalEntry is one consult in a pet's clinical history.
type ClinicalEntry struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	MascotaID          string             `bson:"mascotaId" json:"mascotaId" binding:"required"`
	MascotaNombre      string             `bson:"mascotaNombre" json:"mascotaNombre"`
	Fecha              string             `bson:"fecha" json:"fecha" binding:"required"`
	Veterinario        string             `bson:"veterinario" json:"veterinario"`
	VeterinarioID      string             `bson:"veterinarioId,omitempty" json:"veterinarioId"`
	TipoConsulta       string             `bson:"tipoConsulta,omitempty" json:"tipoConsulta"`
	Motivo             string             `bson:"motivo" json:"motivo"`
	Diagnostico        string             `bson:"diagnostico" json:"diagnostico" binding:"required"`
	Tratamiento        string             `bson:"tratamiento" json:"tratamiento" binding:"required"`
	Servicios          []Service          `bson:"servicios" json:"servicios"`
	Medicamentos       []Medication       `bson:"medicamentos" json:"medicamentos"`
	Examenes           []Exam             `bson:"examenes" json:"examenes"`
	Vacunas            []Vaccine          `bson:"vacunas" json:"vacunas"`
	Peso               any                `bson:"peso,omitempty" json:"peso"`
	Temperatura        any                `bson:"temperatura,omitempty" json:"temperatura"`
	PresionArterial    any                `bson:"presionArterial,omitempty" json:"presionArterial"`
	FrecuenciaCardiaca any                `bson:"frecuenciaCardiaca,omitempty" json:"frecuenciaCardiaca"`
	Observaciones      string             `bson:"observaciones" json:"observaciones"`
	ProximaVisita      string             `bson:"proximaVisita,omitempty" json:"proximaVisita"`
	Estado             string             `bson:"estado" json:"estado"`
	ArchivosAdjuntos   []Attachment       `bson:"archivosAdjuntos" json:"archivosAdjuntos"`
	FechaCreacion      time.Time          `bson:"fechaCreacion" json:"-"`
}

func (e *ClinicalEntry) ApplyDefaults(now time.Time) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Estado == "" {
		e.Estado = ConsultCompleted
	}
	if e.Servicios == nil {
		e.Servicios = []Service{}
	}
	if e.Medicamentos == nil {
		e.Medicamentos = []Medication{}
	}
	if e.Examenes == nil {
		e.Examenes = []Exam{}
	}
	if e.Vacunas == nil {
		e.Vacunas = []Vaccine{}
	}
	if e.ArchivosAdjuntos == nil {
		e.ArchivosAdjuntos = []Attachment{}
	}
	e.FechaCreacion = now
}

type Service struct {
	Nombre      string   `bson:"nombre" json:"nombre"`
	Descripcion string   `bson:"descripcion,omitempty" json:"descripcion"`
	Precio      *float64 `bson:"precio,omitempty" json:"precio"`
	Duracion    string   `bson:"duracion,omitempty" json:"duracion"`
	Notas       string   `bson:"notas,omitempty" json:"notas"`
}

type Medication struct {
	Nombre       string `bson:"nombre" json:"nombre"`
	Dosis        string `bson:"dosis" json:"dosis"`
	Frecuencia   string `bson:"frecuencia" json:"frecuencia"`
	Duracion     string `bson:"duracion" json:"duracion"`
	Indicaciones string `bson:"indicaciones,omitempty" json:"indicaciones"`
}

type Exam struct {
	Tipo      string `bson:"tipo" json:"tipo"`
	Resultado string `bson:"resultado" json:"resultado"`
	Archivo   string `bson:"archivo,omitempty" json:"archivo"`
}

type Vaccine struct {
	Nombre       string `bson:"nombre" json:"nombre"`
	Lote         string `bson:"lote" json:"lote"`
	ProximaFecha string `bson:"proximaFecha,omitempty" json:"proximaFecha"`
}

type Attachment struct {
	Nombre string `bson:"nombre" json:"nombre"`
	Tipo   string `bson:"tipo" json:"tipo"`
	URL    string `bson:"url" json:"url"`
}

// ClinicalEntryUpdate list fields are pointers so an empty array clears the
// stored list while an absent key leaves it alone.
type ClinicalEntryUpdate struct {
	MascotaID          *string       `bson:"mascotaId,omitempty" json:"mascotaId"`
	MascotaNombre      *string       `bson:"mascotaNombre,omitempty" json:"mascotaNombre"`
	Fecha              *string       `bson:"fecha,omitempty" json:"fecha"`
	Veterinario        *string       `bson:"veterinario,omitempty" json:"veterinario"`
	VeterinarioID      *string       `bson:"veterinarioId,omitempty" json:"veterinarioId"`
	TipoConsulta       *string       `bson:"tipoConsulta,omitempty" json:"tipoConsulta"`
	Motivo             *string       `bson:"motivo,omitempty" json:"motivo"`
	Diagnostico        *string       `bson:"diagnostico,omitempty" json:"diagnostico"`
	Tratamiento        *string       `bson:"tratamiento,omitempty" json:"tratamiento"`
	Servicios          *[]Service    `bson:"servicios,omitempty" json:"servicios"`
	Medicamentos       *[]Medication `bson:"medicamentos,omitempty" json:"medicamentos"`
	Examenes           *[]Exam       `bson:"examenes,omitempty" json:"examenes"`
	Vacunas            *[]Vaccine    `bson:"vacunas,omitempty" json:"vacunas"`
	Peso               any           `bson:"peso,omitempty" json:"peso"`
	Temperatura        any           `bson:"temperatura,omitempty" json:"temperatura"`
	PresionArterial    any           `bson:"presionArterial,omitempty" json:"presionArterial"`
	FrecuenciaCardiaca any           `bson:"frecuenciaCardiaca,omitempty" json:"frecuenciaCardiaca"`
	Observaciones      *string       `bson:"observaciones,omitempty" json:"observaciones"`
	ProximaVisita      *string       `bson:"proximaVisita,omitempty" json:"proximaVisita"`
	Estado             *string       `bson:"estado,omitempty" json:"estado"`
	ArchivosAdjuntos   *[]Attachment `bson:"archivosAdjuntos,omitempty" json:"archivosAdjuntos"`

	FechaActualizacion time.Time `bson:"fechaActualizacion" json:"-"`
}
