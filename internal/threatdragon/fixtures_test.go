package threatdragon

// sampleModel is a trimmed Threat Dragon 2.x document with one diagram:
// two in-scope processes, a store, a flow, an out-of-scope process, a trust
// boundary, and one id-less decoration cell.
const sampleModel = `{
  "version": "2.3.0",
  "summary": {
    "title": "Demo Application",
    "owner": "app-team",
    "id": 0
  },
  "detail": {
    "contributors": [],
    "diagrams": [
      {
        "id": 0,
        "title": "Main Request Data Flow",
        "diagramType": "STRIDE",
        "version": "2.3.0",
        "cells": [
          {
            "position": { "x": 50, "y": 60 },
            "size": { "width": 112.5, "height": 60 },
            "attrs": {
              "text": { "text": "Web App" },
              "body": { "stroke": "#333333", "strokeWidth": 1.5 }
            },
            "visible": true,
            "shape": "process",
            "id": "web-app",
            "zIndex": 1,
            "data": {
              "type": "tm.Process",
              "name": "Web App",
              "description": "Public web application",
              "outOfScope": false,
              "hasOpenThreats": false,
              "threats": []
            }
          },
          {
            "position": { "x": 240, "y": 230 },
            "size": { "width": 160, "height": 80 },
            "attrs": {
              "text": { "text": "User DB" },
              "topLine": { "stroke": "#333333", "strokeWidth": 1.5 },
              "bottomLine": { "stroke": "#333333", "strokeWidth": 1.5 }
            },
            "visible": true,
            "shape": "store",
            "id": "user-db",
            "zIndex": 2,
            "data": {
              "type": "tm.Store",
              "name": "User DB",
              "description": "Stores user records"
            }
          },
          {
            "shape": "flow",
            "id": "login-flow",
            "zIndex": 10,
            "attrs": {
              "line": { "stroke": "#333333", "strokeWidth": 1, "targetMarker": { "name": "block" } }
            },
            "data": {
              "type": "tm.Flow",
              "name": "Login Flow",
              "description": "Credentials over TLS"
            }
          },
          {
            "position": { "x": 500, "y": 60 },
            "size": { "width": 112.5, "height": 60 },
            "attrs": {
              "text": { "text": "Legacy Service" },
              "body": { "stroke": "#999999", "strokeDasharray": "4 3" }
            },
            "shape": "process",
            "id": "legacy-svc",
            "zIndex": 3,
            "data": {
              "type": "tm.Process",
              "name": "Legacy Service",
              "description": "Decommissioned next quarter",
              "outOfScope": true
            }
          },
          {
            "position": { "x": 30, "y": 20 },
            "size": { "width": 400, "height": 350 },
            "shape": "trust-boundary-box",
            "id": "dmz-boundary",
            "zIndex": -1,
            "data": {
              "type": "tm.BoundaryBox",
              "name": "DMZ"
            }
          },
          {
            "shape": "td-text-block",
            "zIndex": 20,
            "data": { "type": "tm.Text", "name": "notes" }
          }
        ]
      }
    ],
    "diagramTop": 1,
    "reviewer": "",
    "threatTop": 0
  }
}`
